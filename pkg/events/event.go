package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeProteinUpdated      = "protein.updated"
	TypeChatUpdated         = "chat.updated"
	TypeSearchUpdated       = "search.updated"
	TypePredictionCompleted = "prediction.completed"

	KeyWorkspaceID = "workspace_id"
	KeyData        = "data"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "protein.updated").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurredAt"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewWorkspaceEvent scopes data to one workspace.
func NewWorkspaceEvent(eventType, workspaceID string, data interface{}) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			KeyWorkspaceID: workspaceID,
			KeyData:        data,
		},
		OccurredAt: time.Now().UTC(),
	}
}

// WorkspaceID returns the workspace an event belongs to, or "".
func WorkspaceID(e Event) string {
	id, _ := e.Payload()[KeyWorkspaceID].(string)
	return id
}

func Encode(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()})
}

func Decode(data []byte) (BaseEvent, error) {
	var e BaseEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}
