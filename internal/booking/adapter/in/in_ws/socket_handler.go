package in_ws

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/auth"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/presence"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/ws"
)

// SocketHandler owns the websocket endpoint shared by all three actor
// classes. A connection is authenticated on handshake, but the actor only
// becomes reachable after its client sends a register_* readiness signal.
type SocketHandler struct {
	hub *ws.Hub
	log *logger.Logger
}

func NewSocketHandler(jwtSvc *auth.JWTService, registry *presence.Registry, log *logger.Logger) *SocketHandler {
	authFunc := func(token string) (actorID, role string, err error) {
		actorID, role, err = jwtSvc.ExtractIdentity(token)
		if err != nil {
			return "", "", err
		}
		if !model.ActorClass(role).Valid() {
			return "", "", fmt.Errorf("invalid role: %s", role)
		}
		return actorID, role, nil
	}

	hub := ws.NewHub(registry, authFunc, log)

	handler := &SocketHandler{
		hub: hub,
		log: log,
	}
	hub.SetMessageHandler(handler.handleMessage)

	return handler
}

// Hub returns the websocket hub backing this handler.
func (h *SocketHandler) Hub() *ws.Hub {
	return h.hub
}

// ServeWS upgrades the connection.
func (h *SocketHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	h.hub.ServeWS(w, r)
}

// handleMessage processes client frames. register_* signals mark the actor
// reachable; the registered identity always comes from the JWT, never from
// the message body.
func (h *SocketHandler) handleMessage(client *ws.Client, messageType string, _ json.RawMessage) error {
	var class model.ActorClass
	switch messageType {
	case model.MsgRegisterUser:
		class = model.ClassUser
	case model.MsgRegisterMechanic:
		class = model.ClassMechanic
	case model.MsgRegisterAdmin:
		class = model.ClassAdmin
	default:
		h.log.Debug(logger.Entry{
			Action:  "ws_message_ignored",
			Message: messageType,
		})
		return nil
	}

	if client.Class() != class {
		h.log.Warn(logger.Entry{
			Action:  "ws_register_role_mismatch",
			Message: fmt.Sprintf("%s sent %s", client.Role, messageType),
			Additional: map[string]any{
				"actor_id": client.ActorID,
			},
		})
		return fmt.Errorf("role %s cannot register as %s", client.Role, class)
	}

	h.hub.Registry().Register(class, client.ActorID, client.ID)

	h.log.Info(logger.Entry{
		Action:  "actor_registered",
		Message: string(class),
		Additional: map[string]any{
			"actor_id": client.ActorID,
			"conn_id":  client.ID,
		},
	})

	return client.Send("registered", map[string]any{
		"class":  string(class),
		"userId": client.ActorID,
	})
}
