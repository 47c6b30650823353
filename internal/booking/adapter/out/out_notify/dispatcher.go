// Package out_notify implements the dual-channel notification dispatcher:
// live websocket delivery plus FCM push. Both channels carry the same
// payload and both are best-effort.
package out_notify

import (
	"context"

	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/application/ports/out"
	"github.com/ganesh-basavoju/mechpro-backend/internal/booking/domain"
	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
)

// LiveEmitter is the websocket side of dispatch, satisfied by *ws.Hub.
type LiveEmitter interface {
	EmitToActor(class model.ActorClass, actorID, kind string, payload any)
	BroadcastToClass(class model.ActorClass, kind string, payload any)
}

// TokenSource resolves the stored push token for an actor. An empty token
// (or an error) means no push is attempted.
type TokenSource interface {
	FCMToken(ctx context.Context, class model.ActorClass, actorID string) (string, error)
}

// Dispatcher fans each notification out to both channels. The live emit
// always happens; if the actor holds no open connection it lands nowhere.
// Push fires independently whenever a token is on file, so an online actor
// with a token receives the event twice. Clients deduplicate by bookingId.
type Dispatcher struct {
	live   LiveEmitter
	push   out.PushSender
	tokens TokenSource
	log    *logger.Logger
}

func NewDispatcher(live LiveEmitter, push out.PushSender, tokens TokenSource, log *logger.Logger) *Dispatcher {
	return &Dispatcher{live: live, push: push, tokens: tokens, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, target domain.Target, n domain.Notification) {
	d.live.EmitToActor(target.Class, target.ID, n.Kind, n)

	token, err := d.tokens.FCMToken(ctx, target.Class, target.ID)
	if err != nil {
		d.log.Debug(logger.Entry{
			Action:    "push_token_lookup_failed",
			Message:   err.Error(),
			BookingID: n.BookingID,
		})
		return
	}
	if token == "" {
		return
	}

	msg := out.PushMessage{
		Title:     n.Title,
		Body:      n.Message,
		Kind:      n.Kind,
		BookingID: n.BookingID,
	}
	if err := d.push.Send(ctx, token, msg, target.Class, target.ID); err != nil {
		d.log.Warn(logger.Entry{
			Action:    "push_delivery_failed",
			Message:   err.Error(),
			BookingID: n.BookingID,
			Additional: map[string]any{
				"class":    string(target.Class),
				"actor_id": target.ID,
			},
		})
	}
}

func (d *Dispatcher) Broadcast(_ context.Context, class model.ActorClass, n domain.Notification) {
	d.live.BroadcastToClass(class, n.Kind, n)
}

// RepoTokenSource reads tokens straight from the actor repositories.
type RepoTokenSource struct {
	Users     out.UserRepository
	Mechanics out.MechanicRepository
}

func (s *RepoTokenSource) FCMToken(ctx context.Context, class model.ActorClass, actorID string) (string, error) {
	switch class {
	case model.ClassUser:
		u, err := s.Users.FindByID(ctx, actorID)
		if err != nil {
			return "", err
		}
		return u.FCMToken, nil
	case model.ClassMechanic:
		m, err := s.Mechanics.FindByID(ctx, actorID)
		if err != nil {
			return "", err
		}
		return m.FCMToken, nil
	}
	// admins receive events live only
	return "", nil
}
