package stock

import (
	"errors"
	"fmt"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
	"tutam/internal/pkg/guard"
)

// Domain errors for stock lot operations.
var (
	// ErrLotIsNotConstructed is returned when using an improperly initialized Lot.
	ErrLotIsNotConstructed = errors.New("Lot must be created via NewLot or RestoreLot")
	// ErrInsufficientQuantity is returned when consuming more than a lot holds.
	ErrInsufficientQuantity = errs.NewValueIsInvalidError("lot quantity would drop below zero")
)

// Lot is a quantity of one item held at one branch with one expiration date
// and one provenance (contributor plus optional campaign). Lots are consumed
// strictly FIFO by ascending expiration date, and a lot's quantity never goes
// negative.
type Lot struct {
	id            kernel.UUID
	itemID        kernel.UUID
	branchID      kernel.UUID
	contributorID kernel.UUID
	campaignID    *kernel.UUID

	expirationDate time.Time
	quantity       float64

	guard guard.ConstructorGuard
}

// LotKey identifies the lot a received quantity belongs to. The reconciler
// resolves a key per receipt line and finds-or-creates the matching lot.
type LotKey struct {
	ItemID        kernel.UUID
	BranchID      kernel.UUID
	ContributorID kernel.UUID
	CampaignID    *kernel.UUID
	Expiration    time.Time
}

// NewLot creates a lot with an initial quantity.
func NewLot(id kernel.UUID, key LotKey, quantity float64) (*Lot, error) {
	return RestoreLot(id, key, quantity)
}

// RestoreLot reconstructs a lot from persistence.
func RestoreLot(id kernel.UUID, key LotKey, quantity float64) (*Lot, error) {
	if err := errors.Join(
		id.Validate(),
		key.ItemID.Validate(),
		key.BranchID.Validate(),
		key.ContributorID.Validate(),
	); err != nil {
		return nil, err
	}

	if key.Expiration.IsZero() {
		return nil, errs.NewValueIsRequiredError("expiration date")
	}

	if quantity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%g is negative", quantity))
	}

	return &Lot{
		id:             id,
		itemID:         key.ItemID,
		branchID:       key.BranchID,
		contributorID:  key.ContributorID,
		campaignID:     key.CampaignID,
		expirationDate: key.Expiration,
		quantity:       quantity,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the lot was constructed through a constructor.
func (l *Lot) Validate() error {
	if l == nil {
		return ErrLotIsNotConstructed
	}
	return l.guard.Validate(ErrLotIsNotConstructed)
}

// ID returns the lot's unique identifier.
func (l *Lot) ID() kernel.UUID {
	return l.id
}

// ItemID returns the stored item.
func (l *Lot) ItemID() kernel.UUID {
	return l.itemID
}

// BranchID returns the branch holding the lot.
func (l *Lot) BranchID() kernel.UUID {
	return l.branchID
}

// ContributorID returns the contributor the lot came from.
func (l *Lot) ContributorID() kernel.UUID {
	return l.contributorID
}

// CampaignID returns the campaign the lot was donated under, or nil.
func (l *Lot) CampaignID() *kernel.UUID {
	return l.campaignID
}

// ExpirationDate returns when the lot's goods expire.
func (l *Lot) ExpirationDate() time.Time {
	return l.expirationDate
}

// Quantity returns the units currently held.
func (l *Lot) Quantity() float64 {
	return l.quantity
}

// IsExpired reports whether the lot has expired at the given instant.
func (l *Lot) IsExpired(now time.Time) bool {
	return !l.expirationDate.After(now)
}

// Matches reports whether the lot carries exactly the given provenance key.
// Expiration is compared by date equality; campaign by pointer presence and value.
func (l *Lot) Matches(key LotKey) bool {
	if !l.itemID.IsEqual(key.ItemID) ||
		!l.branchID.IsEqual(key.BranchID) ||
		!l.contributorID.IsEqual(key.ContributorID) ||
		!l.expirationDate.Equal(key.Expiration) {
		return false
	}

	if (l.campaignID == nil) != (key.CampaignID == nil) {
		return false
	}

	return l.campaignID == nil || l.campaignID.IsEqual(*key.CampaignID)
}

// Add increases the lot's quantity by a positive amount.
func (l *Lot) Add(quantity float64) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%g is not greater than 0", quantity))
	}
	l.quantity += quantity
	return nil
}

// Consume removes exactly the given amount. Callers split demand across lots
// before consuming, so over-consumption is a consistency violation.
func (l *Lot) Consume(quantity float64) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%g is not greater than 0", quantity))
	}

	if quantity > l.quantity {
		return ErrInsufficientQuantity
	}

	l.quantity -= quantity
	return nil
}

// Restore returns a previously consumed amount to the lot. Used when an
// export route is canceled and its fragments are reversed.
func (l *Lot) Restore(quantity float64) error {
	return l.Add(quantity)
}
