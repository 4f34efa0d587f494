package alerts

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"fantasyedge/internal/domain"
)

// ChannelAlerts is the generic channel every alert reaches.
const ChannelAlerts = "alerts"

// sendBuffer bounds each connection's outbound queue. A stalled client
// overflows its own queue and loses messages; it never stalls the poller or
// other clients' fan-out.
const sendBuffer = 32

// Envelope is the stable alert wire shape.
type Envelope struct {
	Type  string       `json:"type"`
	Alert domain.Alert `json:"alert"`
}

// Ack is the subscribe/unsubscribe acknowledgement wire shape.
type Ack struct {
	Type     string   `json:"type"`
	Channels []string `json:"channels"`
}

// RecentPayload replays buffered alerts to a freshly subscribed client.
type RecentPayload struct {
	Type   string         `json:"type"`
	Alerts []domain.Alert `json:"alerts"`
}

type client struct {
	id       string
	send     chan []byte
	channels map[string]bool
}

// Hub is the connection registry and fan-out point. The registry and the
// recent-alerts buffer are the only mutable shared state; both sit behind
// one coarse lock, matching their read-mostly access pattern with rare
// bursty writes on poll ticks.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	recent  *AlertRing
	log     zerolog.Logger
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		recent:  NewAlertRing(RecentAlertCapacity),
		log:     log.With().Str("component", "alert_hub").Logger(),
	}
}

// Register adds a connection and returns its outbound queue.
func (h *Hub) Register(clientID string) <-chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()

	c := &client{
		id:       clientID,
		send:     make(chan []byte, sendBuffer),
		channels: make(map[string]bool),
	}
	h.clients[clientID] = c

	h.log.Info().Str("client", clientID).Msg("Client connected")
	return c.send
}

// Unregister removes a connection immediately. Alerts queued for it are
// dropped with the queue.
func (h *Hub) Unregister(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[clientID]; ok {
		delete(h.clients, clientID)
		close(c.send)
		h.log.Info().Str("client", clientID).Msg("Client disconnected")
	}
}

// Subscribe adds channels to a client's subscription set, acks the change,
// and replays the buffered recent alerts relevant to the newly added
// channels (newest first). Replay happens only once the subscription is
// established, never eagerly for unsubscribed channels.
func (h *Hub) Subscribe(clientID string, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return
	}

	added := make([]string, 0, len(channels))
	for _, ch := range channels {
		if !c.channels[ch] {
			c.channels[ch] = true
			added = append(added, ch)
		}
	}

	h.push(c, mustMarshal(Ack{Type: "subscribed", Channels: channels}))

	if len(added) > 0 {
		replay := []domain.Alert{}
		for _, a := range h.recent.Snapshot() {
			if alertMatchesAny(a, added) {
				replay = append(replay, a)
			}
		}
		h.push(c, mustMarshal(RecentPayload{Type: "RECENT_ALERTS", Alerts: replay}))
	}
}

// Unsubscribe removes channels from a client's subscription set and acks.
func (h *Hub) Unsubscribe(clientID string, channels []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[clientID]
	if !ok {
		return
	}
	for _, ch := range channels {
		delete(c.channels, ch)
	}
	h.push(c, mustMarshal(Ack{Type: "unsubscribed", Channels: channels}))
}

// Publish appends the alert to the recent buffer and fans it out to the
// generic alerts channel plus any player- and team-specific channels. A
// client subscribed to several matching channels receives one copy per
// subscription; delivery is at-least-once with per-channel ordering.
func (h *Hub) Publish(alert domain.Alert) {
	payload := mustMarshal(Envelope{Type: "ALERT", Alert: alert})
	channels := alertChannels(alert)

	h.mu.Lock()
	defer h.mu.Unlock()

	// The buffer keeps every published alert, subscribed audience or not.
	h.recent.Append(alert)

	for _, c := range h.clients {
		for _, ch := range channels {
			if c.channels[ch] {
				h.push(c, payload)
			}
		}
	}
}

// Recent returns the buffered alerts, newest first.
func (h *Hub) Recent() []domain.Alert {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.recent.Snapshot()
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// push enqueues without blocking; a full queue drops the message.
// Callers must hold h.mu.
func (h *Hub) push(c *client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.log.Warn().Str("client", c.id).Msg("Send queue full, dropping message")
	}
}

// alertChannels lists every channel an alert is broadcast on.
func alertChannels(a domain.Alert) []string {
	channels := []string{ChannelAlerts}
	if a.PlayerID != "" {
		channels = append(channels, "player:"+a.PlayerID)
	}
	if a.TeamID != "" {
		channels = append(channels, "team:"+a.TeamID)
	}
	return channels
}

func alertMatchesAny(a domain.Alert, channels []string) bool {
	for _, published := range alertChannels(a) {
		for _, ch := range channels {
			if published == ch {
				return true
			}
		}
	}
	return false
}

func mustMarshal(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		// All wire types are plain structs; marshalling cannot fail.
		panic(err)
	}
	return data
}
