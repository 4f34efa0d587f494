package alerts

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

const writeWait = 10 * time.Second

// ClientMessage is the parsed subscribe/unsubscribe frame.
type ClientMessage struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// WSHandler upgrades HTTP connections and bridges them onto the hub.
// It only deals in parsed subscribe/unsubscribe messages and serialized
// alert payloads; reconnection is the transport's concern.
type WSHandler struct {
	hub *Hub
	log zerolog.Logger
}

// NewWSHandler creates the websocket endpoint handler.
func NewWSHandler(hub *Hub, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub: hub,
		log: log.With().Str("component", "alert_ws").Logger(),
	}
}

// ServeHTTP handles GET /ws upgrade requests.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // CORS is enforced by the router middleware
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	clientID := uuid.New().String()
	send := h.hub.Register(clientID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Write pump: drains the hub queue so a slow client never blocks
	// the broadcast path.
	go func() {
		defer cancel()
		for payload := range send {
			writeCtx, writeCancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(writeCtx, websocket.MessageText, payload)
			writeCancel()
			if err != nil {
				return
			}
		}
	}()

	h.readMessages(ctx, conn, clientID)

	h.hub.Unregister(clientID)
	conn.Close(websocket.StatusNormalClosure, "")
}

// readMessages processes inbound frames until the connection drops.
// Malformed messages are logged and ignored; the connection stays open.
func (h *WSHandler) readMessages(ctx context.Context, conn *websocket.Conn, clientID string) {
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			closeStatus := websocket.CloseStatus(err)
			if closeStatus == websocket.StatusNormalClosure || closeStatus == websocket.StatusGoingAway {
				h.log.Debug().Str("client", clientID).Msg("WebSocket closed normally")
			} else if ctx.Err() == nil {
				h.log.Debug().Err(err).Str("client", clientID).Msg("WebSocket read ended")
			}
			return
		}

		if msgType != websocket.MessageText {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.log.Warn().Err(err).Str("client", clientID).Msg("Ignoring malformed subscription message")
			continue
		}

		switch msg.Type {
		case "subscribe":
			h.hub.Subscribe(clientID, msg.Channels)
		case "unsubscribe":
			h.hub.Unsubscribe(clientID, msg.Channels)
		default:
			h.log.Warn().Str("client", clientID).Str("type", msg.Type).Msg("Ignoring unknown message type")
		}
	}
}
