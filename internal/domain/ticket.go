package domain

import "time"

// TicketStatus enumerates lifecycle states for design requests.
type TicketStatus string

const (
	TicketStatusRequested  TicketStatus = "requested"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusReview     TicketStatus = "review"
	TicketStatusCompleted  TicketStatus = "completed"
)

// ValidTicketStatus reports whether the value belongs to the closed
// status enum. The board allows movement between any two statuses, so
// validity of the value is the only transition check.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusRequested, TicketStatusInProgress, TicketStatusReview, TicketStatusCompleted:
		return true
	}
	return false
}

// TicketPriority enumerates request urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// ValidTicketPriority reports whether the value belongs to the closed
// priority enum.
func ValidTicketPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
		return true
	}
	return false
}

// Ticket is the aggregate for a client design request.
type Ticket struct {
	ID          string
	ClientID    string
	AssigneeID  *string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Attachments []string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Expanded identities for list/detail projections.
	Client   *User
	Assignee *User
}
