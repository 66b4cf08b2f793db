package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is an activity record for an action issued through this service
type Event struct {
	ID          string                 `json:"id"`
	Type        Type                   `json:"type"`
	ActorID     string                 `json:"actor_id"`
	ProposalID  int64                  `json:"proposal_id,omitempty"`
	EvaluatorID string                 `json:"evaluator_id,omitempty"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// NewEvent creates an event with a fresh id and the current time
func NewEvent(eventType Type, actorID string, proposalID int64, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ActorID:    actorID,
		ProposalID: proposalID,
		Payload:    payload,
		Timestamp:  time.Now().UTC(),
	}
}

// ForEvaluator returns a copy of e scoped to one evaluator
func (e *Event) ForEvaluator(evaluatorID string) *Event {
	c := e.clone()
	c.EvaluatorID = evaluatorID
	return c
}

// WithPayload returns a copy of e with key set in the payload
func (e *Event) WithPayload(key string, value interface{}) *Event {
	c := e.clone()
	c.Payload[key] = value
	return c
}

func (e *Event) clone() *Event {
	payload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		payload[k] = v
	}
	c := *e
	c.Payload = payload
	return &c
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if s, ok := e.Payload[key].(string); ok {
		return s
	}
	return ""
}

// GetPayloadInt retrieves an integer value from the payload. JSON-decoded
// payloads carry numbers as float64.
func (e *Event) GetPayloadInt(key string) int64 {
	switch v := e.Payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
