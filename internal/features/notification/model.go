package notification

import (
	"time"
)

type EventType string

const (
	EventRequest   EventType = "request"   // A stage is waiting for approvers
	EventCompleted EventType = "completed" // Every stage approved
	EventRejected  EventType = "rejected"
	EventOverdue   EventType = "overdue" // Current stage passed its deadline
)

// Event is the payload sent to the notification function and websocket
// subscribers. type and documentApprovalId are always present.
type Event struct {
	Type               EventType `json:"type"`
	DocumentApprovalID string    `json:"documentApprovalId"`
	StageID            string    `json:"stageId,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

func NewEvent(eventType EventType, documentApprovalID, stageID string) Event {
	return Event{
		Type:               eventType,
		DocumentApprovalID: documentApprovalID,
		StageID:            stageID,
		Timestamp:          time.Now().UTC(),
	}
}
