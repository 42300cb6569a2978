// Package postgres provides the GORM-based implementation of the Unit of Work
// pattern. The unit of work maintains the set of aggregates a business
// transaction touches and coordinates writing out changes atomically.
//
// Each command handler creates one unit of work, begins a transaction, obtains
// its repositories from the unit of work so they share that transaction, and
// commits or rolls back at the end. Aggregates modified through those
// repositories are tracked and can be inspected after commit, which is what
// makes the transactional outbox reliable: a notification row commits together
// with the state change that caused it, never on its own.
package postgres

import (
	"context"

	"tutam/internal/adapters/out/postgres/outboxrepo"
	"tutam/internal/adapters/out/postgres/requestrepo"
	"tutam/internal/adapters/out/postgres/routerepo"
	"tutam/internal/adapters/out/postgres/stockrepo"
	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances using a shared GORM
// database connection. Each business operation gets a fresh instance with
// proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across the four
// repositories the scheduling engine writes to. Repositories obtained from it
// run inside the active transaction, or on the main connection when no
// transaction was begun.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Multiple calls on the same instance are safe and will not nest transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns error if no active transaction exists or if the commit fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns error if no active transaction exists or if the rollback fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// RequestRepository returns a delivery request repository bound to the
// current transaction.
func (uow *GormUnitOfWork) RequestRepository() ports.DeliveryRequestRepository {
	return requestrepo.NewGormDeliveryRequestRepository(uow.conn(), uow)
}

// RouteRepository returns a scheduled route repository bound to the current
// transaction.
func (uow *GormUnitOfWork) RouteRepository() ports.ScheduledRouteRepository {
	return routerepo.NewGormScheduledRouteRepository(uow.conn(), uow)
}

// StockRepository returns a stock repository bound to the current transaction.
func (uow *GormUnitOfWork) StockRepository() ports.StockRepository {
	return stockrepo.NewGormStockRepository(uow.conn(), uow)
}

// OutboxRepository returns a notification outbox repository bound to the
// current transaction.
func (uow *GormUnitOfWork) OutboxRepository() ports.NotificationOutboxRepository {
	return outboxrepo.NewGormNotificationOutboxRepository(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit of
// work. Repositories call it on Add and Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
