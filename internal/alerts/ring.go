// Package alerts maintains live client connections, channel subscriptions,
// a periodic poller that diffs cached last-seen state against fresh data,
// and fan-out of published alerts to subscribed channels.
package alerts

import "fantasyedge/internal/domain"

// RecentAlertCapacity bounds the recent-alerts buffer.
const RecentAlertCapacity = 100

// AlertRing is a fixed-capacity buffer with overwrite-oldest semantics.
// Readers only ever see copies, so published alerts stay immutable. Not
// safe for concurrent use on its own; the hub guards it with its lock.
type AlertRing struct {
	buf  []domain.Alert
	next int
	full bool
}

// NewAlertRing creates a ring holding at most capacity alerts.
func NewAlertRing(capacity int) *AlertRing {
	if capacity <= 0 {
		capacity = RecentAlertCapacity
	}
	return &AlertRing{buf: make([]domain.Alert, capacity)}
}

// Append adds an alert, evicting the oldest entry once full.
func (r *AlertRing) Append(a domain.Alert) {
	r.buf[r.next] = a
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
}

// Len returns the number of alerts currently held.
func (r *AlertRing) Len() int {
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Snapshot returns the held alerts newest first.
func (r *AlertRing) Snapshot() []domain.Alert {
	n := r.Len()
	out := make([]domain.Alert, 0, n)
	for i := 1; i <= n; i++ {
		idx := (r.next - i + len(r.buf)) % len(r.buf)
		out = append(out, r.buf[idx])
	}
	return out
}
