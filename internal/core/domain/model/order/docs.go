// Package order contains the order-side aggregates of the marketplace domain:
// the buyer-facing Order, the seller-scoped SubOrder, the OrderStatus state
// machine shared by both, and the append-only StatusEvent audit record.
//
// A single checkout produces one Order that may span several sellers. Once the
// order reaches its paid milestone the commission splitter partitions it into
// one SubOrder per seller. Every status or tracking mutation flows through the
// aggregates here, which validate the change, mutate state and hand back a
// change record for history, broadcast and notification delivery.
package order
