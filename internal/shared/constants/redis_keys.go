package constants

import "fmt"

// Redis key namespace. Pattern: ticketly:{concern}:{operation}:{identifier}
const CachePrefix = "ticketly"

// BuildCapacityKey is the idempotency key guarding a one-shot capacity
// adjustment for a booking. Claimed once per booking and operation
// within its TTL.
func BuildCapacityKey(op, bookingID string) string {
	return fmt.Sprintf("%s:capacity:%s:%s", CachePrefix, op, bookingID)
}

// BuildRateLimitKey identifies one client's sliding window for a limit
// class.
func BuildRateLimitKey(clientIP, limitType string) string {
	return fmt.Sprintf("%s:ratelimit:%s:%s", CachePrefix, clientIP, limitType)
}
