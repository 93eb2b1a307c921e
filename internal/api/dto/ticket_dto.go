package dto

import (
	"time"

	"github.com/ghostflow/agency-service/internal/domain"
)

// CreateTicketRequest payload. Status and assignee are not accepted:
// new tickets are always requested and unassigned.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Attachments []string              `json:"attachment_urls"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// UpdateTicketRequest is the staff metadata update payload.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	Attachments []string               `json:"attachment_urls"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content    string `json:"content"`
	IsInternal bool   `json:"is_internal"`
}

// ValidateAttachmentRequest payload.
type ValidateAttachmentRequest struct {
	URL string `json:"url"`
}

// TicketResponse is the expanded ticket view.
type TicketResponse struct {
	ID          string                `json:"id"`
	ClientID    string                `json:"client_id"`
	AssigneeID  *string               `json:"assignee_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Attachments []string              `json:"attachment_urls"`
	Client      *UserResponse         `json:"client,omitempty"`
	Assignee    *UserResponse         `json:"assignee,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// CommentResponse represents a thread entry.
type CommentResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewTicketResponse maps a domain ticket with expanded identities.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:          ticket.ID,
		ClientID:    ticket.ClientID,
		AssigneeID:  ticket.AssigneeID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Attachments: ticket.Attachments,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
	}
	if ticket.Client != nil {
		client := NewUserResponse(ticket.Client)
		resp.Client = &client
	}
	if ticket.Assignee != nil {
		assignee := NewUserResponse(ticket.Assignee)
		resp.Assignee = &assignee
	}
	return resp
}

// NewCommentResponse maps a domain comment.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         comment.ID,
		TicketID:   comment.TicketID,
		AuthorID:   comment.AuthorID,
		Content:    comment.Content,
		IsInternal: comment.IsInternal,
		CreatedAt:  comment.CreatedAt,
	}
}
