package events

import (
	"time"

	"github.com/ghostflow/agency-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated        EventType = "ticket_created"
	EventTicketStatusChanged  EventType = "ticket_status_changed"
	EventTicketAssigned       EventType = "ticket_assigned"
	EventCommentAdded         EventType = "comment_added"
	EventSubscriptionPaused   EventType = "subscription_paused"
	EventSubscriptionResumed  EventType = "subscription_resumed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID string                `json:"ticket_id"`
	ClientID string                `json:"client_id"`
	Priority domain.TicketPriority `json:"priority"`
	Title    string                `json:"title"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID  string              `json:"ticket_id"`
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	TicketID   string              `json:"ticket_id"`
	AssigneeID string              `json:"assignee_id"`
	OldStatus  domain.TicketStatus `json:"old_status"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	TicketID   string `json:"ticket_id"`
	CommentID  string `json:"comment_id"`
	IsInternal bool   `json:"is_internal"`
}

// SubscriptionPayload covers pause and resume events.
type SubscriptionPayload struct {
	SubscriptionID string                    `json:"subscription_id"`
	ClientID       string                    `json:"client_id"`
	Status         domain.SubscriptionStatus `json:"status"`
}
