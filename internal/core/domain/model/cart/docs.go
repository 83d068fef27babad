// Package cart provides the Cart aggregate feeding order creation.
//
// A cart belongs to exactly one customer and is mutated only by that
// customer's own connections. Writes are therefore serialized per customer
// and last-write-wins is acceptable; no conditional-update arbitration is
// needed here, in contrast to the order acceptance race.
package cart
