package notifications

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentEventToJSON(t *testing.T) {
	event := &PaymentEvent{
		Type:          EventPaymentConfirmed,
		BookingID:     "bk-1",
		TransactionID: "txn-1",
		Amount:        499.50,
	}

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "payment.confirmed", decoded["type"])
	assert.Equal(t, "bk-1", decoded["booking_id"])
	assert.Equal(t, 499.50, decoded["amount"])
}

func TestPartitionKey(t *testing.T) {
	// Events of the same booking must land on the same partition so
	// consumers see its lifecycle in order.
	a := &PaymentEvent{Type: EventPaymentConfirmed, BookingID: "bk-1"}
	b := &PaymentEvent{Type: EventPaymentRefunded, BookingID: "bk-1"}

	assert.Equal(t, a.PartitionKey(), b.PartitionKey())
	assert.Equal(t, "bk-1", a.PartitionKey())
}
