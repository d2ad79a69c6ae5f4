package gateway

import (
	"errors"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
)

// ErrNotConfigured is returned when gateway credentials are missing from
// the environment. Callers surface this as a precondition failure, not a
// crash.
var ErrNotConfigured = errors.New("payment gateway credentials are not configured")

// Order is the subset of the gateway's order entity this service uses
type Order struct {
	ID       string
	Amount   int64 // minor units
	Currency string
	Receipt  string
}

// Refund is the subset of the gateway's refund entity this service uses
type Refund struct {
	ID     string
	Amount int64 // minor units
	Status string
}

// Client wraps the payment gateway operations used by the payment
// services. The interface exists so tests can substitute a fake.
type Client interface {
	// CreateOrder opens a gateway order with auto-capture enabled.
	// Amount is in minor units (paise).
	CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error)

	// CreateRefund refunds a captured payment. Amount is in minor units.
	CreateRefund(paymentID string, amount int64, notes map[string]interface{}) (*Refund, error)

	// KeyID returns the public key id handed to checkout clients
	KeyID() string

	// KeySecret returns the signing secret for signature verification
	KeySecret() string

	// Configured reports whether credentials are present
	Configured() bool
}

// razorpayClient implements Client using the Razorpay SDK
type razorpayClient struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

// NewRazorpayClient creates a gateway client. Credentials may be empty;
// the client reports unconfigured and every call fails cleanly.
func NewRazorpayClient(keyID, keySecret string) Client {
	c := &razorpayClient{
		keyID:     keyID,
		keySecret: keySecret,
	}
	if c.Configured() {
		c.client = razorpay.NewClient(keyID, keySecret)
	}
	return c
}

func (c *razorpayClient) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

func (c *razorpayClient) KeyID() string {
	return c.keyID
}

func (c *razorpayClient) KeySecret() string {
	return c.keySecret
}

func (c *razorpayClient) CreateOrder(amount int64, currency, receipt string, notes map[string]interface{}) (*Order, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	data := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := c.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway order creation failed: %w", err)
	}

	return &Order{
		ID:       stringField(body, "id"),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (c *razorpayClient) CreateRefund(paymentID string, amount int64, notes map[string]interface{}) (*Refund, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	// The SDK takes an int; reject amounts that would truncate on
	// 32-bit targets
	if amount > int64(math.MaxInt) {
		return nil, fmt.Errorf("refund amount %d exceeds the platform int range", amount)
	}

	data := map[string]interface{}{}
	if len(notes) > 0 {
		data["notes"] = notes
	}

	body, err := c.client.Payment.Refund(paymentID, int(amount), data, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway refund failed: %w", err)
	}

	return &Refund{
		ID:     stringField(body, "id"),
		Amount: amount,
		Status: stringField(body, "status"),
	}, nil
}

// stringField reads a string out of the SDK's untyped response map
func stringField(body map[string]interface{}, key string) string {
	if v, ok := body[key].(string); ok {
		return v
	}
	return ""
}
