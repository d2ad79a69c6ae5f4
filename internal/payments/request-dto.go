package payments

// CreateOrderRequest opens a gateway order for a booking
type CreateOrderRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	Currency  string `json:"currency,omitempty"`
	Receipt   string `json:"receipt,omitempty"`
}

// VerifyPaymentRequest carries the gateway callback fields. Field names
// mirror the checkout callback payload.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	BookingID         string `json:"booking_id" binding:"required"`
}

// RefundRequest refunds a confirmed booking. Amount is in major units;
// zero means a full refund.
type RefundRequest struct {
	BookingID string  `json:"booking_id" binding:"required"`
	Reason    string  `json:"reason,omitempty"`
	Amount    float64 `json:"amount,omitempty" binding:"omitempty,gt=0"`
}
