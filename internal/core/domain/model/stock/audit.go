package stock

import (
	"fmt"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
)

// AuditKind classifies one append-only stock movement entry.
type AuditKind int

const (
	// AuditKindUnknown is the invalid zero value.
	AuditKindUnknown AuditKind = iota

	// AuditKindReceipt records quantity added to a lot on import delivery.
	AuditKindReceipt

	// AuditKindFulfillment records quantity consumed from a lot for an
	// export request. One entry per consumed fragment.
	AuditKindFulfillment

	// AuditKindReversal compensates a fulfillment fragment after an export
	// route cancellation. The original entry is flagged superseded, never
	// deleted.
	AuditKindReversal
)

func getAuditKindStrings() map[AuditKind]string {
	return map[AuditKind]string{
		AuditKindUnknown:     "Unknown",
		AuditKindReceipt:     "Receipt",
		AuditKindFulfillment: "Fulfillment",
		AuditKindReversal:    "Reversal",
	}
}

// Validate checks if the AuditKind value is defined.
func (k AuditKind) Validate() error {
	if k <= AuditKindUnknown || k > AuditKindReversal {
		return errs.NewValueIsInvalidErrorWithCause(
			"audit kind", fmt.Errorf("%d is not a valid audit kind", k))
	}
	return nil
}

// String returns the human-readable name of the audit kind.
func (k AuditKind) String() string {
	if s, ok := getAuditKindStrings()[k]; ok {
		return s
	}
	return "Unknown"
}

// AuditEntry is one append-only record of stock movement against a lot,
// attributed to the delivery request that caused it. Reversal entries
// reference the entry they compensate.
type AuditEntry struct {
	id        kernel.UUID
	lotID     kernel.UUID
	requestID kernel.UUID
	kind      AuditKind

	// quantity is always positive; the kind carries the sign of the movement.
	quantity float64

	note         string
	supersededBy *kernel.UUID
	compensates  *kernel.UUID
	createdDate  time.Time
}

// NewAuditEntry creates an audit entry for a stock movement.
func NewAuditEntry(
	id kernel.UUID,
	lotID kernel.UUID,
	requestID kernel.UUID,
	kind AuditKind,
	quantity float64,
	note string,
	createdDate time.Time,
) (*AuditEntry, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%g is not greater than 0", quantity))
	}

	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := lotID.Validate(); err != nil {
		return nil, err
	}
	if err := requestID.Validate(); err != nil {
		return nil, err
	}

	return &AuditEntry{
		id:          id,
		lotID:       lotID,
		requestID:   requestID,
		kind:        kind,
		quantity:    quantity,
		note:        note,
		createdDate: createdDate,
	}, nil
}

// RestoreAuditEntry reconstructs an audit entry from persistence.
func RestoreAuditEntry(
	id kernel.UUID,
	lotID kernel.UUID,
	requestID kernel.UUID,
	kind AuditKind,
	quantity float64,
	note string,
	supersededBy *kernel.UUID,
	compensates *kernel.UUID,
	createdDate time.Time,
) (*AuditEntry, error) {
	entry, err := NewAuditEntry(id, lotID, requestID, kind, quantity, note, createdDate)
	if err != nil {
		return nil, err
	}

	entry.supersededBy = supersededBy
	entry.compensates = compensates
	return entry, nil
}

// ID returns the entry's unique identifier.
func (e *AuditEntry) ID() kernel.UUID {
	return e.id
}

// LotID returns the lot the movement applied to.
func (e *AuditEntry) LotID() kernel.UUID {
	return e.lotID
}

// RequestID returns the delivery request that caused the movement.
func (e *AuditEntry) RequestID() kernel.UUID {
	return e.requestID
}

// Kind returns the movement classification.
func (e *AuditEntry) Kind() AuditKind {
	return e.kind
}

// Quantity returns the moved amount, always positive.
func (e *AuditEntry) Quantity() float64 {
	return e.quantity
}

// Note returns the free-form note attached to the movement.
func (e *AuditEntry) Note() string {
	return e.note
}

// SupersededBy returns the id of the reversal entry that compensated this
// one, or nil while the entry stands.
func (e *AuditEntry) SupersededBy() *kernel.UUID {
	return e.supersededBy
}

// Compensates returns the id of the entry this reversal compensates, or nil
// for non-reversal entries.
func (e *AuditEntry) Compensates() *kernel.UUID {
	return e.compensates
}

// CreatedDate returns when the movement was recorded.
func (e *AuditEntry) CreatedDate() time.Time {
	return e.createdDate
}

// IsSuperseded reports whether a reversal has compensated this entry.
func (e *AuditEntry) IsSuperseded() bool {
	return e.supersededBy != nil
}

// Reverse creates the compensating entry for a fulfillment fragment and flags
// this entry as superseded by it. Only fulfillment entries can be reversed,
// and only once.
func (e *AuditEntry) Reverse(newID kernel.UUID, reason string, now time.Time) (*AuditEntry, error) {
	if e.kind != AuditKindFulfillment {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"audit kind", fmt.Errorf("%s entry cannot be reversed", e.kind))
	}

	if e.IsSuperseded() {
		return nil, errs.NewValueIsInvalidError("audit entry already superseded")
	}

	reversal, err := NewAuditEntry(
		newID, e.lotID, e.requestID, AuditKindReversal, e.quantity, reason, now)
	if err != nil {
		return nil, err
	}

	original := e.id
	reversal.compensates = &original
	e.supersededBy = &newID
	return reversal, nil
}
