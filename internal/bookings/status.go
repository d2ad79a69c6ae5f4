package bookings

type Status string

const (
	StatusPaymentPending Status = "payment_pending"
	StatusConfirmed      Status = "confirmed"
	StatusPaymentFailed  Status = "payment_failed"
	StatusRefunded       Status = "refunded"
	StatusCancelled      Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPaymentPending, StatusConfirmed, StatusPaymentFailed, StatusRefunded, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// CanConfirm reports whether verification may move the booking to confirmed.
// Transitions are one-directional: payment_pending -> confirmed -> refunded,
// or payment_pending -> payment_failed.
func (s Status) CanConfirm() bool {
	return s == StatusPaymentPending
}

// CanRefund reports whether the booking is refundable. Only a confirmed
// booking may be refunded.
func (s Status) CanRefund() bool {
	return s == StatusConfirmed
}
