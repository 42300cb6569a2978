// Package notification provides the outbox entity for user-facing messages.
//
// State transitions commit their notifications atomically with their own
// writes; a separate drainer dispatches pending rows to the push and
// real-time sinks afterwards. Dispatch failure never rolls back the
// transition that produced the notification.
package notification

import (
	"errors"
	"time"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/pkg/errs"
)

// Data types attached to notifications so clients can deep-link the subject.
const (
	DataTypeDeliveryRequest = "delivery_request"
	DataTypeScheduledRoute  = "scheduled_route"
	DataTypeStockLot        = "stock_lot"
)

// ErrNotificationIsNotConstructed is returned when using an improperly
// initialized Notification.
var ErrNotificationIsNotConstructed = errors.New(
	"Notification must be created via NewNotification or RestoreNotification")

// Notification is one undelivered outbox row: who to tell, what to say, and
// which entity the message is about.
type Notification struct {
	id       kernel.UUID
	receiver kernel.UUID
	title    string
	body     string
	dataType string
	dataID   kernel.UUID

	createdDate time.Time
	sentDate    *time.Time
	attempts    int
}

// NewNotification creates a pending outbox notification.
func NewNotification(
	id kernel.UUID,
	receiver kernel.UUID,
	title, body, dataType string,
	dataID kernel.UUID,
	createdDate time.Time,
) (*Notification, error) {
	if err := errors.Join(id.Validate(), receiver.Validate(), dataID.Validate()); err != nil {
		return nil, err
	}

	if title == "" {
		return nil, errs.NewValueIsRequiredError("title")
	}

	return &Notification{
		id:          id,
		receiver:    receiver,
		title:       title,
		body:        body,
		dataType:    dataType,
		dataID:      dataID,
		createdDate: createdDate,
	}, nil
}

// RestoreNotification reconstructs an outbox row from persistence.
func RestoreNotification(
	id kernel.UUID,
	receiver kernel.UUID,
	title, body, dataType string,
	dataID kernel.UUID,
	createdDate time.Time,
	sentDate *time.Time,
	attempts int,
) (*Notification, error) {
	n, err := NewNotification(id, receiver, title, body, dataType, dataID, createdDate)
	if err != nil {
		return nil, err
	}

	n.sentDate = sentDate
	n.attempts = attempts
	return n, nil
}

// ID returns the notification's unique identifier.
func (n *Notification) ID() kernel.UUID { return n.id }

// ReceiverID returns the user the message is addressed to.
func (n *Notification) ReceiverID() kernel.UUID { return n.receiver }

// Title returns the message title.
func (n *Notification) Title() string { return n.title }

// Body returns the message body.
func (n *Notification) Body() string { return n.body }

// DataType returns the kind of entity the message is about.
func (n *Notification) DataType() string { return n.dataType }

// DataID returns the entity the message is about.
func (n *Notification) DataID() kernel.UUID { return n.dataID }

// CreatedDate returns when the notification was committed to the outbox.
func (n *Notification) CreatedDate() time.Time { return n.createdDate }

// SentDate returns when the drainer delivered the message, or nil.
func (n *Notification) SentDate() *time.Time { return n.sentDate }

// Attempts returns how many times the drainer has tried to deliver.
func (n *Notification) Attempts() int { return n.attempts }

// IsSent reports whether delivery succeeded.
func (n *Notification) IsSent() bool { return n.sentDate != nil }

// MarkSent records a successful delivery.
func (n *Notification) MarkSent(now time.Time) {
	n.sentDate = &now
	n.attempts++
}

// MarkAttempted records a failed delivery attempt. The row stays pending and
// the drainer retries it on the next pass.
func (n *Notification) MarkAttempted() {
	n.attempts++
}
