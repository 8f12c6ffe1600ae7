package events

import "time"

// Envelope is the canonical event shape boxoffice publishes. Authorization
// lifecycle events (authorize.completed, authorize.canceled) all travel in it.
type Envelope struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	SourceService  string    `json:"source_service"`
	OccurredAtUTC  time.Time `json:"occurred_at_utc"`
	CorrelationID  string    `json:"correlation_id"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	PayloadVersion int       `json:"payload_version"`
	Payload        any       `json:"payload"`
}

const (
	TypeAuthorizeCompleted = "ordering.authorize.completed"
	TypeAuthorizeCanceled  = "ordering.authorize.canceled"

	EntityAuthorizeAction = "authorize_action"
)
