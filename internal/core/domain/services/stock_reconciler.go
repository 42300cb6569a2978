package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/schedule"
	"tutam/internal/core/domain/model/stock"
	"tutam/internal/core/ports"
	"tutam/internal/pkg/errs"
)

// ErrInsufficientStock is returned when export demand cannot be covered by
// the branch's unexpired lots.
var ErrInsufficientStock = errs.NewValueIsInvalidError(
	"demanded quantity exceeds available stock")

// ReceiptLine is one delivered item position on an import route: what arrived,
// from whom, under which campaign (nil when untargeted), with which shelf life.
type ReceiptLine struct {
	ItemID        kernel.UUID
	ContributorID kernel.UUID
	CampaignID    *kernel.UUID
	Expiration    time.Time
	Quantity      float64
}

// ExportDemand is one item position an export request draws from stock.
type ExportDemand struct {
	ItemID   kernel.UUID
	Quantity float64
}

// StockReconciler applies delivery outcomes to the branch inventory: receipts
// add to lots, fulfillments consume lots FIFO by ascending expiration date,
// and export cancellations reverse the consumed fragments. Every movement
// leaves an append-only audit entry; reversals supersede, never delete.
//
// All methods operate on a transaction-bound repository and must run inside
// the caller's unit of work.
type StockReconciler struct{}

// NewStockReconciler creates a new StockReconciler instance.
func NewStockReconciler() StockReconciler {
	return StockReconciler{}
}

// Receive books delivered import goods into stock. Per line: the lot key is
// resolved (untargeted lines go to the least-fulfilled matching open campaign
// target, if any), the lot is found or created, the quantity added, the
// campaign target advanced, and a receipt audit entry appended.
//
// Campaign targets are read through an invocation-scoped cache so repeated
// lines for the same item observe each other's progress without refetching.
func (s StockReconciler) Receive(
	ctx context.Context,
	repo ports.StockRepository,
	requestID kernel.UUID,
	branchID kernel.UUID,
	lines []ReceiptLine,
	now time.Time,
) ([]*stock.AuditEntry, error) {
	cache := newTargetCache(repo)
	entries := make([]*stock.AuditEntry, 0, len(lines))

	for _, line := range lines {
		target, err := cache.resolve(ctx, line.CampaignID, line.ItemID, branchID)
		if err != nil {
			return nil, err
		}

		key := stock.LotKey{
			ItemID:        line.ItemID,
			BranchID:      branchID,
			ContributorID: line.ContributorID,
			CampaignID:    line.CampaignID,
			Expiration:    line.Expiration,
		}
		if target != nil {
			campaignID := target.CampaignID()
			key.CampaignID = &campaignID
		}

		lot, err := s.addToLot(ctx, repo, key, line.Quantity)
		if err != nil {
			return nil, err
		}

		if target != nil {
			if err := target.Advance(line.Quantity); err != nil {
				return nil, err
			}
			if err := repo.UpdateTarget(ctx, target); err != nil {
				return nil, err
			}
		}

		entry, err := stock.NewAuditEntry(
			kernel.NewUUID(), lot.ID(), requestID,
			stock.AuditKindReceipt, line.Quantity, "", now)
		if err != nil {
			return nil, err
		}
		if err := repo.AddAuditEntry(ctx, entry); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Fulfill consumes stock for an export request, splitting each demand across
// lots in ascending expiration order. One fulfillment audit entry is written
// per consumed fragment; a fragment's note comes from lotNotes when the
// branch annotated that lot, else from the handover-wide note.
func (s StockReconciler) Fulfill(
	ctx context.Context,
	repo ports.StockRepository,
	requestID kernel.UUID,
	branchID kernel.UUID,
	demands []ExportDemand,
	note string,
	lotNotes map[kernel.UUID]string,
	now time.Time,
) ([]*stock.AuditEntry, error) {
	var entries []*stock.AuditEntry

	for _, demand := range demands {
		lots, err := repo.GetConsumableLots(ctx, demand.ItemID, branchID, now)
		if err != nil {
			return nil, err
		}

		remaining := demand.Quantity
		for _, lot := range lots {
			if remaining <= 0 {
				break
			}

			take := remaining
			if lot.Quantity() < take {
				take = lot.Quantity()
			}
			if take <= 0 {
				continue
			}

			if err := lot.Consume(take); err != nil {
				return nil, err
			}
			if err := repo.UpdateLot(ctx, lot); err != nil {
				return nil, err
			}

			fragmentNote := note
			if lotNote, ok := lotNotes[lot.ID()]; ok && lotNote != "" {
				fragmentNote = lotNote
			}

			entry, err := stock.NewAuditEntry(
				kernel.NewUUID(), lot.ID(), requestID,
				stock.AuditKindFulfillment, take, fragmentNote, now)
			if err != nil {
				return nil, err
			}
			if err := repo.AddAuditEntry(ctx, entry); err != nil {
				return nil, err
			}

			entries = append(entries, entry)
			remaining -= take
		}

		if remaining > 0 {
			return nil, ErrInsufficientStock
		}
	}

	return entries, nil
}

// ReverseFulfillment compensates every standing fulfillment fragment of a
// canceled export request: the quantity returns to its lot, a reversal entry
// referencing the cancel reason is appended, and the original entry is flagged
// superseded. The sum of reversed quantities always equals the sum originally
// consumed.
func (s StockReconciler) ReverseFulfillment(
	ctx context.Context,
	repo ports.StockRepository,
	requestID kernel.UUID,
	reason string,
	now time.Time,
) error {
	fragments, err := repo.GetFulfillmentEntries(ctx, requestID)
	if err != nil {
		return err
	}

	for _, fragment := range fragments {
		if fragment.IsSuperseded() {
			continue
		}

		lot, err := repo.GetLot(ctx, fragment.LotID())
		if err != nil {
			return err
		}

		reversal, err := fragment.Reverse(kernel.NewUUID(), reason, now)
		if err != nil {
			return err
		}

		if err := lot.Restore(fragment.Quantity()); err != nil {
			return err
		}
		if err := repo.UpdateLot(ctx, lot); err != nil {
			return err
		}
		if err := repo.AddAuditEntry(ctx, reversal); err != nil {
			return err
		}
		if err := repo.UpdateAuditEntry(ctx, fragment); err != nil {
			return err
		}
	}

	return nil
}

// CheckAvailability gates accepting new export demand: per item, the valid
// lots not expiring before the route window, minus quantities already claimed
// by other pending export requests, minus the batch under review, must stay
// non-negative. One shortfall rejects the whole batch.
func (s StockReconciler) CheckAvailability(
	ctx context.Context,
	repo ports.StockRepository,
	branchID kernel.UUID,
	window schedule.Interval,
	batchRequestIDs []kernel.UUID,
	demands []ExportDemand,
	now time.Time,
) (bool, error) {
	claims, err := repo.GetPendingExportClaims(ctx, branchID, batchRequestIDs)
	if err != nil {
		return false, err
	}

	for _, demand := range demands {
		lots, err := repo.GetConsumableLots(ctx, demand.ItemID, branchID, now)
		if err != nil {
			return false, err
		}

		var available float64
		for _, lot := range lots {
			if lot.ExpirationDate().Before(window.End) {
				continue
			}
			available += lot.Quantity()
		}

		if available-claims[demand.ItemID]-demand.Quantity < 0 {
			return false, nil
		}
	}

	return true, nil
}

func (s StockReconciler) addToLot(
	ctx context.Context,
	repo ports.StockRepository,
	key stock.LotKey,
	quantity float64,
) (*stock.Lot, error) {
	lot, err := repo.FindLot(ctx, key)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		lot, err = stock.NewLot(kernel.NewUUID(), key, quantity)
		if err != nil {
			return nil, err
		}
		if err := repo.AddLot(ctx, lot); err != nil {
			return nil, err
		}
		return lot, nil

	case err != nil:
		return nil, err
	}

	if err := lot.Add(quantity); err != nil {
		return nil, err
	}
	if err := repo.UpdateLot(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// targetCache is the invocation-scoped read-through cache over campaign
// targets, keyed by item and branch. It exists so one Receive call never
// refetches targets mid-loop yet observes its own progress updates.
type targetCache struct {
	repo   ports.StockRepository
	loaded map[string][]*stock.CampaignTarget
}

func newTargetCache(repo ports.StockRepository) *targetCache {
	return &targetCache{
		repo:   repo,
		loaded: make(map[string][]*stock.CampaignTarget),
	}
}

// resolve picks the campaign target a receipt line advances: the line's own
// campaign when targeted, otherwise the least-fulfilled matching open target.
// Returns nil when no open target matches.
func (c *targetCache) resolve(
	ctx context.Context,
	campaignID *kernel.UUID,
	itemID kernel.UUID,
	branchID kernel.UUID,
) (*stock.CampaignTarget, error) {
	targets, err := c.openTargets(ctx, itemID, branchID)
	if err != nil {
		return nil, err
	}

	if campaignID != nil {
		for _, t := range targets {
			if t.CampaignID().IsEqual(*campaignID) {
				return t, nil
			}
		}
		return nil, nil
	}

	var best *stock.CampaignTarget
	for _, t := range targets {
		if !t.IsOpen() {
			continue
		}
		if best == nil || t.FulfillmentRatio() < best.FulfillmentRatio() {
			best = t
		}
	}
	return best, nil
}

func (c *targetCache) openTargets(
	ctx context.Context,
	itemID kernel.UUID,
	branchID kernel.UUID,
) ([]*stock.CampaignTarget, error) {
	key := fmt.Sprintf("%s/%s", itemID, branchID)
	if targets, ok := c.loaded[key]; ok {
		return targets, nil
	}

	targets, err := c.repo.GetOpenTargets(ctx, itemID, branchID)
	if err != nil {
		return nil, err
	}

	c.loaded[key] = targets
	return targets, nil
}
