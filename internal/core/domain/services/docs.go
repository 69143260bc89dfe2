// Package services contains stateless domain services that coordinate logic
// across aggregates. The commission splitter lives here: it partitions a paid
// order into seller sub-orders and earnings without touching persistence, so
// the arithmetic is testable in isolation.
package services
