package ports

import (
	"context"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/stock"
)

// StockRepository defines the persistence contract for stock lots, audit
// entries and campaign targets. They share a repository because the
// reconciler always mutates them together.
type StockRepository interface {
	AddLot(ctx context.Context, lot *stock.Lot) error
	UpdateLot(ctx context.Context, lot *stock.Lot) error

	// GetLot retrieves a lot by its unique identifier.
	GetLot(ctx context.Context, id kernel.UUID) (*stock.Lot, error)

	// FindLot retrieves the lot matching the full lot key, or
	// errs.ErrObjectNotFound when no such lot exists yet.
	FindLot(ctx context.Context, key stock.LotKey) (*stock.Lot, error)

	// GetConsumableLots retrieves the lots with positive quantity for one
	// item at one branch that are unexpired as of now, ordered ascending
	// by expiration date.
	GetConsumableLots(ctx context.Context, itemID, branchID kernel.UUID, now time.Time) ([]*stock.Lot, error)

	// GetLotsExpiringBetween retrieves lots whose expiration date falls in
	// [from, to), for expiry reminders.
	GetLotsExpiringBetween(ctx context.Context, from, to time.Time) ([]*stock.Lot, error)

	AddAuditEntry(ctx context.Context, entry *stock.AuditEntry) error
	UpdateAuditEntry(ctx context.Context, entry *stock.AuditEntry) error

	// GetFulfillmentEntries retrieves the non-superseded fulfillment entries
	// recorded for one request, the fragments a cancellation must reverse.
	GetFulfillmentEntries(ctx context.Context, requestID kernel.UUID) ([]*stock.AuditEntry, error)

	// GetOpenTargets retrieves the campaign targets for one item at one
	// branch that still have unfulfilled quantity.
	GetOpenTargets(ctx context.Context, itemID, branchID kernel.UUID) ([]*stock.CampaignTarget, error)
	UpdateTarget(ctx context.Context, target *stock.CampaignTarget) error

	// GetPendingExportClaims sums, per item, the quantities claimed by
	// pending export requests at one branch other than those listed in
	// excludedRequestIDs.
	GetPendingExportClaims(
		ctx context.Context,
		branchID kernel.UUID,
		excludedRequestIDs []kernel.UUID,
	) (map[kernel.UUID]float64, error)
}
