package alerts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fantasyedge/internal/domain"
	"fantasyedge/pkg/logger"
)

func newTestHub() *Hub {
	return NewHub(logger.New(logger.Config{Level: "error"}))
}

// drain empties a client's queue without blocking. Publish enqueues
// synchronously, so everything sent so far is already buffered.
func drain(ch <-chan []byte) [][]byte {
	var out [][]byte
	for {
		select {
		case payload := <-ch:
			out = append(out, payload)
		default:
			return out
		}
	}
}

func countAlerts(t *testing.T, payloads [][]byte) int {
	t.Helper()
	n := 0
	for _, payload := range payloads {
		var env Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		if env.Type == "ALERT" {
			n++
		}
	}
	return n
}

func teamAlert() domain.Alert {
	return domain.Alert{
		Type:      domain.AlertPriceChange,
		Severity:  domain.SeverityMedium,
		Message:   "price moved",
		Timestamp: time.Now(),
		PlayerID:  "p1",
		TeamID:    "t1",
	}
}

func TestHub_Publish_DeliversOneCopyPerMatchingChannel(t *testing.T) {
	hub := newTestHub()
	send := hub.Register("c1")
	hub.Subscribe("c1", []string{ChannelAlerts, "team:t1"})
	drain(send) // ack + replay

	hub.Publish(teamAlert())

	assert.Equal(t, 2, countAlerts(t, drain(send)),
		"subscribed to two matching channels means two copies, no dedup")
}

func TestHub_Publish_SingleChannelSubscriberGetsOneCopy(t *testing.T) {
	hub := newTestHub()
	send := hub.Register("c1")
	hub.Subscribe("c1", []string{"player:p1"})
	drain(send)

	hub.Publish(teamAlert())

	assert.Equal(t, 1, countAlerts(t, drain(send)))
}

func TestHub_Publish_SkipsNonMatchingSubscriptions(t *testing.T) {
	hub := newTestHub()
	send := hub.Register("c1")
	hub.Subscribe("c1", []string{"team:other"})
	drain(send)

	hub.Publish(teamAlert())

	assert.Equal(t, 0, countAlerts(t, drain(send)))
	assert.Len(t, hub.Recent(), 1, "unheard alerts still land in the recent buffer")
}

func TestHub_Subscribe_AcksAndReplaysRecentAlerts(t *testing.T) {
	hub := newTestHub()
	hub.Publish(teamAlert()) // published before anyone connects

	send := hub.Register("c1")
	hub.Subscribe("c1", []string{ChannelAlerts})

	payloads := drain(send)
	require.Len(t, payloads, 2)

	var ack Ack
	require.NoError(t, json.Unmarshal(payloads[0], &ack))
	assert.Equal(t, "subscribed", ack.Type)
	assert.Equal(t, []string{ChannelAlerts}, ack.Channels)

	var recent RecentPayload
	require.NoError(t, json.Unmarshal(payloads[1], &recent))
	assert.Equal(t, "RECENT_ALERTS", recent.Type)
	require.Len(t, recent.Alerts, 1)
	assert.Equal(t, "price moved", recent.Alerts[0].Message)
}

func TestHub_Subscribe_NoReplayForAlreadyHeldChannels(t *testing.T) {
	hub := newTestHub()
	hub.Publish(teamAlert())

	send := hub.Register("c1")
	hub.Subscribe("c1", []string{ChannelAlerts})
	drain(send)

	// Re-subscribing to the same channel acks but does not replay again.
	hub.Subscribe("c1", []string{ChannelAlerts})
	payloads := drain(send)

	require.Len(t, payloads, 1)
	var ack Ack
	require.NoError(t, json.Unmarshal(payloads[0], &ack))
	assert.Equal(t, "subscribed", ack.Type)
}

func TestHub_Unsubscribe_StopsDelivery(t *testing.T) {
	hub := newTestHub()
	send := hub.Register("c1")
	hub.Subscribe("c1", []string{ChannelAlerts})
	drain(send)

	hub.Unsubscribe("c1", []string{ChannelAlerts})
	drain(send) // unsubscribe ack

	hub.Publish(teamAlert())

	assert.Equal(t, 0, countAlerts(t, drain(send)))
}

func TestHub_Unregister_RemovesClient(t *testing.T) {
	hub := newTestHub()
	hub.Register("c1")
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister("c1")
	assert.Equal(t, 0, hub.ClientCount())

	// Publishing after the disconnect must not panic on the closed queue.
	hub.Publish(teamAlert())
}

func TestHub_Publish_DropsOnFullQueue(t *testing.T) {
	hub := newTestHub()
	send := hub.Register("slow")
	hub.Subscribe("slow", []string{ChannelAlerts})
	drain(send)

	// Nobody drains the queue; overflow is dropped, not blocking.
	for i := 0; i < sendBuffer+10; i++ {
		hub.Publish(teamAlert())
	}

	assert.Equal(t, sendBuffer, len(drain(send)))
	assert.Len(t, hub.Recent(), sendBuffer+10, "the recent ring is unaffected by slow clients")
}
