package payments

// CreateOrderResponse is returned to the checkout client. Amount is in
// minor units, matching what the gateway widget expects.
type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// VerifyPaymentResponse confirms a verified payment
type VerifyPaymentResponse struct {
	Verified      bool   `json:"verified"`
	BookingID     string `json:"booking_id"`
	TransactionID string `json:"transaction_id"`
}

// RefundResponse confirms a processed refund
type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}
