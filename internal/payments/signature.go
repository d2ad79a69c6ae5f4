package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeSignature returns the hex-encoded HMAC-SHA256 of
// "orderID|paymentID" keyed with the gateway secret. This is the
// signature the gateway produces for a genuine payment.
func ComputeSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a caller-supplied signature against the expected
// one in constant time.
func VerifySignature(orderID, paymentID, secret, signature string) bool {
	expected := ComputeSignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
