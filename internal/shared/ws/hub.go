// Package ws is the live delivery channel: a websocket hub that pushes
// notification frames to connected actors. Presence (who is reachable under
// which connection) is tracked in an injected presence.Registry; an actor
// becomes reachable only after its client sends a register_* message.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ganesh-basavoju/mechpro-backend/internal/model"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/logger"
	"github.com/ganesh-basavoju/mechpro-backend/internal/shared/presence"

	"github.com/gorilla/websocket"
)

const (
	// authTimeout is the window in which a fresh connection must present a
	// valid token before the server drops it.
	authTimeout = 5 * time.Second

	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 8192
	writeWait      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict origins once the mobile/web clients are pinned down
		return true
	},
}

// AuthFunc validates a token and returns the actor's identity.
type AuthFunc func(token string) (actorID, role string, err error)

// MessageHandler is invoked for every message a client sends after the
// handshake (register_* readiness signals and anything else).
type MessageHandler func(client *Client, messageType string, data json.RawMessage) error

// Client is one websocket connection.
type Client struct {
	ID      string // connection handle, unique per socket
	ActorID string // from the JWT
	Role    string // user | mechanic | admin
	conn    *websocket.Conn
	send    chan []byte
	hub     *Hub
	log     *logger.Logger
}

// Class maps the client's role onto its actor class.
func (c *Client) Class() model.ActorClass {
	return model.ActorClass(c.Role)
}

// frame is the envelope of every server->client message.
type frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub owns all live connections and performs presence-routed delivery.
type Hub struct {
	clients        map[string]*Client // connID -> client
	mu             sync.RWMutex
	register       chan *Client
	unregister     chan *Client
	registry       *presence.Registry
	authFunc       AuthFunc
	messageHandler MessageHandler
	log            *logger.Logger
}

func NewHub(registry *presence.Registry, authFunc AuthFunc, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client, 10),
		unregister: make(chan *Client, 10),
		registry:   registry,
		authFunc:   authFunc,
		log:        log,
	}
}

// SetMessageHandler installs the handler for inbound client messages.
func (h *Hub) SetMessageHandler(handler MessageHandler) {
	h.messageHandler = handler
}

// Registry exposes the presence registry backing this hub.
func (h *Hub) Registry() *presence.Registry {
	return h.registry
}

// Run is the hub's main loop. Registration and disconnect events for one
// connection arrive in order; presence cleanup happens here so a disconnect
// can never race its own client's frames.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.log.Info(logger.Entry{Action: "hub_stopped", Message: "websocket hub stopped"})
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Info(logger.Entry{
				Action:  "client_connected",
				Message: client.ID,
				Additional: map[string]any{
					"actor_id": client.ActorID,
					"role":     client.Role,
				},
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}
			h.mu.Unlock()
			// remove-if-current: a presence entry that has since been
			// overwritten by a reconnect is left untouched
			h.registry.Unregister(client.ID)
			h.log.Info(logger.Entry{
				Action:  "client_disconnected",
				Message: client.ID,
				Additional: map[string]any{
					"actor_id": client.ActorID,
				},
			})
		}
	}
}

// EmitToActor delivers an event to one actor if it has a live connection.
// Every event goes out under the generic "notification" tag plus a second
// frame tagged with the event kind, so older clients listening on
// booking_update / new_booking / booking_cancelled keep working. An offline
// actor is an expected condition: the miss is silent, never an error.
func (h *Hub) EmitToActor(class model.ActorClass, actorID, kind string, payload any) {
	connID, ok := h.registry.Lookup(class, actorID)
	if !ok {
		h.log.Debug(logger.Entry{
			Action:  "actor_offline",
			Message: actorID,
			Additional: map[string]any{
				"class": string(class),
				"kind":  kind,
			},
		})
		return
	}
	h.emitToConn(connID, kind, payload)
}

// BroadcastToClass delivers an event to every registered member of a class.
// Per-recipient side effects are identical to EmitToActor.
func (h *Hub) BroadcastToClass(class model.ActorClass, kind string, payload any) {
	for _, entry := range h.registry.OnlineByClass(class) {
		h.emitToConn(entry.ConnID, kind, payload)
	}
}

func (h *Hub) emitToConn(connID, kind string, payload any) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	for _, tag := range []string{"notification", kind} {
		if tag == "" {
			continue
		}
		b, err := json.Marshal(frame{Type: tag, Data: payload})
		if err != nil {
			h.log.Error(logger.Entry{
				Action:  "marshal_event_failed",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
			return
		}
		select {
		case client.send <- b:
		default:
			h.log.Error(logger.Entry{
				Action:  "send_buffer_full",
				Message: connID,
				Additional: map[string]any{
					"actor_id": client.ActorID,
				},
			})
		}
	}
}

// ServeWS upgrades an HTTP request and runs the auth-first handshake.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error(logger.Entry{
			Action:  "ws_upgrade_failed",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	clientID := fmt.Sprintf("ws_%d", time.Now().UnixNano())

	client := &Client{
		ID:   clientID,
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
		log:  h.log,
	}

	_ = conn.SetReadDeadline(time.Now().Add(authTimeout))

	var authMsg struct {
		Token string `json:"token"`
	}
	if err := conn.ReadJSON(&authMsg); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseProtocolError, "auth timeout"))
		_ = conn.Close()
		h.log.Error(logger.Entry{
			Action:  "ws_auth_failed",
			Message: "no auth message received",
		})
		return
	}

	actorID, role, err := h.authFunc(authMsg.Token)
	if err != nil {
		_ = conn.WriteJSON(map[string]string{"error": "invalid token"})
		_ = conn.Close()
		h.log.Error(logger.Entry{
			Action:  "ws_auth_invalid_token",
			Message: err.Error(),
			Error:   &logger.ErrObj{Msg: err.Error()},
		})
		return
	}

	client.ActorID = actorID
	client.Role = role

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	h.register <- client

	_ = conn.WriteJSON(map[string]string{"status": "authenticated", "actor_id": actorID})

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Error(logger.Entry{
					Action:  "ws_read_error",
					Message: c.ID,
					Error:   &logger.ErrObj{Msg: err.Error()},
				})
			}
			break
		}

		var msg struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data,omitempty"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.Error(logger.Entry{
				Action:  "ws_parse_message_error",
				Message: err.Error(),
				Error:   &logger.ErrObj{Msg: err.Error()},
				Additional: map[string]any{
					"client_id": c.ID,
				},
			})
			continue
		}

		if c.hub.messageHandler != nil {
			if err := c.hub.messageHandler(c, msg.Type, msg.Data); err != nil {
				c.log.Error(logger.Entry{
					Action:  "ws_handle_message_error",
					Message: err.Error(),
					Error:   &logger.ErrObj{Msg: err.Error()},
					Additional: map[string]any{
						"client_id": c.ID,
						"msg_type":  msg.Type,
					},
				})
			}
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a typed frame to this client directly (handshake replies etc).
func (c *Client) Send(kind string, payload any) error {
	b, err := json.Marshal(frame{Type: kind, Data: payload})
	if err != nil {
		return err
	}
	select {
	case c.send <- b:
		return nil
	default:
		return fmt.Errorf("send buffer full for %s", c.ID)
	}
}
