package out

import (
	"context"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
)

// BookingNotifier is the dispatch boundary the use cases talk to. Delivery
// is best-effort on every channel: implementations log failures and never
// return them, so a booking mutation can never be rolled back or failed by
// an undeliverable notification.
type BookingNotifier interface {
	// Dispatch delivers the event to one actor: always attempts live
	// delivery, and independently falls back to (or doubles with) push when
	// the actor has a device token on file.
	Dispatch(ctx context.Context, target domain.Target, n domain.Notification)

	// Broadcast delivers the event live to every online member of a class.
	Broadcast(ctx context.Context, class model.ActorClass, n domain.Notification)
}

// PushMessage is the body handed to the push transport.
type PushMessage struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Kind      string `json:"type"`
	BookingID string `json:"bookingId"`
}

// PushSender is the external push transport (FCM). Callers only invoke it
// with a non-empty token; transport failures are the implementation's to log.
type PushSender interface {
	Send(ctx context.Context, token string, msg PushMessage, class model.ActorClass, actorID string) error
}

// EventPublisher pushes lifecycle events onto the message broker. The
// routing key is derived from the event type inside the adapter.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, eventType string, ev domain.BookingEvent) error
}
