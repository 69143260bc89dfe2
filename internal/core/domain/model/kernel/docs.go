// Package kernel contains the shared value objects of the marketplace domain:
// identifiers, money amounts in integer minor units, commission rates and
// caller roles. These types are immutable and carry their own validation so
// aggregates built on top of them can trust their invariants.
package kernel
