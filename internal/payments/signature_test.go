package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSignature(t *testing.T) {
	sig := ComputeSignature("order_abc", "pay_xyz", "secret")

	// Hex-encoded HMAC-SHA256 is always 64 characters
	require.Len(t, sig, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", sig)

	// Deterministic for identical inputs
	assert.Equal(t, sig, ComputeSignature("order_abc", "pay_xyz", "secret"))

	// Any input change produces a different signature
	assert.NotEqual(t, sig, ComputeSignature("order_abd", "pay_xyz", "secret"))
	assert.NotEqual(t, sig, ComputeSignature("order_abc", "pay_xyy", "secret"))
	assert.NotEqual(t, sig, ComputeSignature("order_abc", "pay_xyz", "secret2"))

	// The payload is orderID|paymentID, so shifting the boundary must
	// not collide
	assert.NotEqual(t,
		ComputeSignature("order_a", "bc", "secret"),
		ComputeSignature("order_", "abc", "secret"),
	)
}

func TestVerifySignature(t *testing.T) {
	secret := "test_secret"
	valid := ComputeSignature("order_1", "pay_1", secret)

	assert.True(t, VerifySignature("order_1", "pay_1", secret, valid))

	assert.False(t, VerifySignature("order_1", "pay_1", secret, ""))
	assert.False(t, VerifySignature("order_1", "pay_1", secret, "not-hex"))
	assert.False(t, VerifySignature("order_1", "pay_1", "wrong_secret", valid))
	assert.False(t, VerifySignature("order_2", "pay_1", secret, valid))

	// A single flipped character must fail
	mutated := []byte(valid)
	if mutated[0] == '0' {
		mutated[0] = '1'
	} else {
		mutated[0] = '0'
	}
	assert.False(t, VerifySignature("order_1", "pay_1", secret, string(mutated)))
}
