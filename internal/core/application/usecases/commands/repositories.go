// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS
// architecture. All commands follow a consistent pattern: validation,
// transaction management, and persistence.
package commands

import (
	"context"

	"tutam/internal/core/ports"
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

	// RequestRepoFactory provides access to the request repository within a
	// transaction.
	RequestRepoFactory interface {
		RequestRepository() ports.DeliveryRequestRepository
	}

	// RouteRepoFactory provides access to the route repository within a
	// transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.ScheduledRouteRepository
	}

	// StockRepoFactory provides access to the stock repository within a
	// transaction.
	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	// OutboxRepoFactory provides access to the notification outbox within a
	// transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.NotificationOutboxRepository
	}

	// UoW manages transactions across every aggregate the scheduling engine
	// touches. Multi-entity mutations commit as one atomic unit.
	UoW interface {
		TxManager
		RequestRepoFactory
		RouteRepoFactory
		StockRepoFactory
		OutboxRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
