package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		status     Status
		canConfirm bool
		canRefund  bool
	}{
		{StatusPaymentPending, true, false},
		{StatusConfirmed, false, true},
		{StatusPaymentFailed, false, false},
		{StatusRefunded, false, false},
		{StatusCancelled, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canConfirm, tt.status.CanConfirm())
			assert.Equal(t, tt.canRefund, tt.status.CanRefund())
		})
	}
}

func TestChargeAmount(t *testing.T) {
	t.Run("prefers final amount", func(t *testing.T) {
		b := &Booking{FinalAmount: 150, TotalAmount: 999}
		assert.Equal(t, 150.0, b.ChargeAmount())
	})

	t.Run("falls back to legacy total", func(t *testing.T) {
		b := &Booking{TotalAmount: 80}
		assert.Equal(t, 80.0, b.ChargeAmount())
	})

	t.Run("zero when neither is set", func(t *testing.T) {
		assert.Equal(t, 0.0, (&Booking{}).ChargeAmount())
	})
}

func TestTotalTickets(t *testing.T) {
	t.Run("sums line items", func(t *testing.T) {
		b := &Booking{
			TicketCount: 99, // ignored when items exist
			Items: []BookingItem{
				{Quantity: 2},
				{Quantity: 3},
			},
		}
		assert.Equal(t, 5, b.TotalTickets())
	})

	t.Run("falls back to legacy scalar count", func(t *testing.T) {
		b := &Booking{TicketCount: 4}
		assert.Equal(t, 4, b.TotalTickets())
	})

	t.Run("zero for empty booking", func(t *testing.T) {
		assert.Equal(t, 0, (&Booking{}).TotalTickets())
	})
}
