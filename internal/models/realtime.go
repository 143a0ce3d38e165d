package models

// Live feed event types.
const (
	EventAlertCreated = "alert_created"
	EventAlertUpdated = "alert_updated"
	EventAlertDeleted = "alert_deleted"
)

// AlertEvent is pushed to live subscribers (WebSocket, Telegram) when alerts change.
type AlertEvent struct {
	Type    string `json:"type"`
	AlertID string `json:"alert_id"`
	Alert   *Alert `json:"alert,omitempty"`
}
