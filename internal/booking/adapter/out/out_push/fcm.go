// Package out_push delivers booking notifications through Firebase Cloud
// Messaging.
package out_push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/config"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

// FCMSender sends push messages via the Firebase Admin SDK. Every message
// carries a visible notification plus a data payload so the app can route
// the tap to the right booking screen.
type FCMSender struct {
	client *messaging.Client
	log    *logger.Logger
}

// NewFCMSender initialises the Firebase app. If CredentialsFile is empty the
// SDK falls back to GOOGLE_APPLICATION_CREDENTIALS.
func NewFCMSender(ctx context.Context, cfg config.PushConfig, log *logger.Logger) (*FCMSender, error) {
	opts := []option.ClientOption{}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Messaging: %w", err)
	}
	return &FCMSender{client: client, log: log}, nil
}

func (s *FCMSender) Send(ctx context.Context, token string, msg out.PushMessage, class model.ActorClass, actorID string) error {
	fcmMsg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: map[string]string{
			"type":      msg.Kind,
			"bookingId": msg.BookingID,
		},
	}

	id, err := s.client.Send(ctx, fcmMsg)
	if err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}

	s.log.Debug(logger.Entry{
		Action:    "push_sent",
		Message:   id,
		BookingID: msg.BookingID,
		Additional: map[string]any{
			"class":    string(class),
			"actor_id": actorID,
		},
	})
	return nil
}
