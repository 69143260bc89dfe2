// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// SubOrderRepoFactory provides access to the sub-order repository within a transaction.
	SubOrderRepoFactory interface {
		SubOrderRepository() ports.SubOrderRepository
	}

	// EarningRepoFactory provides access to the earning repository within a transaction.
	EarningRepoFactory interface {
		EarningRepository() ports.EarningRepository
	}

	// OrderUoW manages transactions for status and tracking mutations, which
	// may land on either a parent order or a seller sub-order.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		SubOrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// SplitUoW manages the commission split, which writes sub-orders and
	// earnings for one order in a single transaction.
	SplitUoW interface {
		TxManager
		OrderRepoFactory
		SubOrderRepoFactory
		EarningRepoFactory
	}

	// SplitUoWFactory creates new split unit of work instances.
	SplitUoWFactory interface {
		Create() SplitUoW
	}

	// EarningUoW manages transactions that touch earnings only, such as the
	// periodic settlement pass.
	EarningUoW interface {
		TxManager
		EarningRepoFactory
	}

	// EarningUoWFactory creates new earning unit of work instances.
	EarningUoWFactory interface {
		Create() EarningUoW
	}
)
