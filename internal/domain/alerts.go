package domain

import "time"

// AlertType identifies the kind of event an alert describes.
type AlertType string

const (
	AlertPriceChange AlertType = "PRICE_CHANGE"
	AlertInjury      AlertType = "INJURY"
	AlertRoleChange  AlertType = "ROLE_CHANGE"
	AlertTeamNews    AlertType = "TEAM_NEWS"
	AlertLiveScore   AlertType = "LIVE_SCORE"
)

// AlertSeverity is the fixed severity ladder for published alerts.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "LOW"
	SeverityMedium   AlertSeverity = "MEDIUM"
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Alert is immutable once published; the broadcaster only ever appends.
type Alert struct {
	Type      AlertType              `json:"type"`
	Severity  AlertSeverity          `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	PlayerID  string                 `json:"playerId,omitempty"`
	TeamID    string                 `json:"teamId,omitempty"`
	Data      map[string]interface{} `json:"data"`
}

// PriceAlertSeverity maps an absolute price delta onto the severity ladder.
func PriceAlertSeverity(delta int) AlertSeverity {
	if delta < 0 {
		delta = -delta
	}
	switch {
	case delta > 50000:
		return SeverityCritical
	case delta > 30000:
		return SeverityHigh
	case delta > 15000:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
