package domain

import "time"

// Comment is an append-only note on a ticket. Internal comments are
// filtered out of client-facing projections; they are stored as-is.
type Comment struct {
	ID         string
	TicketID   string
	AuthorID   string
	Content    string
	IsInternal bool
	CreatedAt  time.Time
}
