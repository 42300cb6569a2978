// Package notifier provides the delivery channels behind the notification
// outbox: Firebase Cloud Messaging push, a websocket fan-out hub, and the
// drainer that moves committed outbox rows to those channels. Delivery is
// best-effort; a failed dispatch leaves the row unsent for the next pass.
package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"tutam/internal/core/domain/model/kernel"
	"tutam/internal/core/domain/model/notification"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// TokenStore resolves the push tokens registered for one user.
type TokenStore interface {
	GetTokens(ctx context.Context, userID kernel.UUID) ([]string, error)
}

// FCMSender delivers notifications as Firebase Cloud Messaging pushes.
type FCMSender struct {
	client *messaging.Client
	tokens TokenStore
	logger *slog.Logger
}

// NewFCMSender creates an FCM sender from a service account credentials file.
func NewFCMSender(
	ctx context.Context,
	credentialsFile string,
	tokens TokenStore,
	logger *slog.Logger,
) (*FCMSender, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting messaging client: %w", err)
	}

	return &FCMSender{
		client: client,
		tokens: tokens,
		logger: logger.With("component", "fcm_sender"),
	}, nil
}

// Deliver sends the notification to every push token the receiver registered.
// A receiver without tokens is not an error; the websocket hub may still
// reach them.
func (s *FCMSender) Deliver(ctx context.Context, n *notification.Notification) error {
	tokens, err := s.tokens.GetTokens(ctx, n.ReceiverID())
	if err != nil {
		return fmt.Errorf("resolving push tokens: %w", err)
	}

	if len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title(),
			Body:  n.Body(),
		},
		Data: map[string]string{
			"type":    n.DataType(),
			"data_id": n.DataID().String(),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("sending FCM message: %w", err)
	}

	if response.FailureCount > 0 {
		s.logger.WarnContext(ctx, "FCM delivery partially failed",
			"notification_id", n.ID().String(),
			"success", response.SuccessCount,
			"failures", response.FailureCount)
	}

	return nil
}

// GormTokenStore reads push tokens from the device_tokens table maintained by
// the wider application's device registration flow.
type GormTokenStore struct {
	db *gorm.DB
}

// NewGormTokenStore creates a token store over the shared database connection.
func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

// GetTokens retrieves the push tokens registered for one user.
func (s *GormTokenStore) GetTokens(ctx context.Context, userID kernel.UUID) ([]string, error) {
	var tokens []string
	if err := s.db.WithContext(ctx).
		Table("device_tokens").
		Where("user_id = ?", userID.Bytes()).
		Pluck("token", &tokens).Error; err != nil {
		return nil, err
	}

	return tokens, nil
}
