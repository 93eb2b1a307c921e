package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ghostflow/agency-service/internal/authz"
	"github.com/ghostflow/agency-service/internal/domain"
	"github.com/ghostflow/agency-service/internal/events"
	"github.com/ghostflow/agency-service/internal/repository"
	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

// TicketService coordinates the design-request workflow.
type TicketService struct {
	tickets    repository.TicketRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles repositories for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CommentRepo repository.CommentRepository
	UserRepo    repository.UserRepository
	Dispatcher  events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		comments:   deps.CommentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// TicketCreateInput describes ticket creation payload. Status and
// assignee are deliberately absent: creation always yields a
// requested, unassigned ticket owned by the acting client.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Attachments []string
}

// TicketUpdateInput describes the staff metadata update payload.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
	Attachments []string
}

// Create opens a new design request for the acting client.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := authz.Authorize(actor, authz.ActionCreateTicket, authz.Resource{}); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if description == "" {
		return nil, apperrors.NewValidationError("description required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidTicketPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": input.Priority})
	}
	if err := validateAttachmentURLs(input.Attachments); err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ClientID:    actor.ID,
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusRequested,
		Priority:    priority,
		Attachments: copyAttachments(input.Attachments),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	ticket.Client = actor

	s.publish(ctx, actor.ID, events.EventTicketCreated, events.TicketCreatedPayload{
		TicketID: ticket.ID,
		ClientID: ticket.ClientID,
		Priority: ticket.Priority,
		Title:    ticket.Title,
	})
	return ticket, nil
}

// Get fetches a single ticket, enforcing read access.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionReadTicket, authz.Resource{Ticket: ticket}); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ChangeStatus moves a ticket to any status in the enum. The board
// supports free movement, so the only status check is enum
// membership; ownership and role checks come from the policy.
func (s *TicketService) ChangeStatus(ctx context.Context, actor *domain.User, ticketID string, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidTicketStatus(newStatus) {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": newStatus})
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionChangeTicketStatus, authz.Resource{Ticket: ticket}); err != nil {
		return nil, err
	}

	oldStatus := ticket.Status
	updated, err := s.tickets.UpdateStatus(ctx, ticketID, newStatus)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor.ID, events.EventTicketStatusChanged, events.TicketStatusChangedPayload{
		TicketID:  updated.ID,
		OldStatus: oldStatus,
		NewStatus: updated.Status,
	})
	return updated, nil
}

// UpdateDetails lets staff edit ticket metadata.
func (s *TicketService) UpdateDetails(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := authz.Authorize(actor, authz.ActionUpdateTicketDetails, authz.Resource{}); err != nil {
		return nil, err
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title required", nil)
		}
		ticket.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("description required", nil)
		}
		ticket.Description = description
	}
	if input.Priority != nil {
		if !domain.ValidTicketPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.Attachments != nil {
		if err := validateAttachmentURLs(input.Attachments); err != nil {
			return nil, err
		}
		ticket.Attachments = copyAttachments(input.Attachments)
	}

	if err := s.tickets.UpdateDetails(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Assign binds a staff member to the ticket. Assignment is a
// workflow-advancing action: it forces status to in_progress no
// matter what the current status is, so an assigned ticket can never
// sit in the unassigned queue.
func (s *TicketService) Assign(ctx context.Context, actor *domain.User, ticketID, assigneeID string) (*domain.Ticket, error) {
	if err := authz.Authorize(actor, authz.ActionAssignTicket, authz.Resource{}); err != nil {
		return nil, err
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("assignee", map[string]any{"assignee_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.CanAccessStaffArea() {
		return nil, apperrors.NewValidationError("assignee must be an employee or admin", map[string]any{"assignee_id": assigneeID})
	}

	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	oldStatus := ticket.Status

	updated, err := s.tickets.Assign(ctx, ticketID, assigneeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor.ID, events.EventTicketAssigned, events.TicketAssignedPayload{
		TicketID:   updated.ID,
		AssigneeID: assigneeID,
		OldStatus:  oldStatus,
	})
	return updated, nil
}

// ListFor returns the role-scoped ticket projection: clients see
// their own tickets, employees see tickets assigned to them, admins
// see everything. The filter lives in the query, not here.
func (s *TicketService) ListFor(ctx context.Context, actor *domain.User) ([]domain.Ticket, error) {
	if actor == nil {
		return nil, apperrors.NewNotAuthenticated("authentication required")
	}
	var (
		tickets []domain.Ticket
		err     error
	)
	switch {
	case actor.IsAdmin():
		tickets, err = s.tickets.ListAll(ctx)
	case actor.CanAccessStaffArea():
		tickets, err = s.tickets.ListByAssignee(ctx, actor.ID)
	default:
		tickets, err = s.tickets.ListByClient(ctx, actor.ID)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// AddComment appends a note to a ticket. Clients may only author
// public comments; staff may also write internal notes.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID, content string, isInternal bool) (*domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionCommentTicket, authz.Resource{Ticket: ticket}); err != nil {
		return nil, err
	}
	if isInternal && !actor.CanAccessStaffArea() {
		return nil, apperrors.NewForbidden("internal notes are staff-only")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	comment := &domain.Comment{
		TicketID:   ticket.ID,
		AuthorID:   actor.ID,
		Content:    content,
		IsInternal: isInternal,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, actor.ID, events.EventCommentAdded, events.CommentAddedPayload{
		TicketID:   ticket.ID,
		CommentID:  comment.ID,
		IsInternal: comment.IsInternal,
	})
	return comment, nil
}

// ListComments returns a ticket's comment thread, newest first.
// Internal notes are filtered out for client actors in this
// projection; storage keeps them all.
func (s *TicketService) ListComments(ctx context.Context, actor *domain.User, ticketID string) ([]domain.Comment, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ActionReadTicket, authz.Resource{Ticket: ticket}); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if actor.CanAccessStaffArea() {
		return comments, nil
	}
	visible := make([]domain.Comment, 0, len(comments))
	for _, comment := range comments {
		if comment.IsInternal {
			continue
		}
		visible = append(visible, comment)
	}
	return visible, nil
}

// ValidateAttachmentURL checks a single attachment reference. The
// reference is stored verbatim after this check; reachability is
// never verified.
func ValidateAttachmentURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return apperrors.NewValidationError("invalid attachment url", map[string]any{"url": raw})
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apperrors.NewValidationError("attachment url must be http or https", map[string]any{"url": raw})
	}
	return nil
}

func validateAttachmentURLs(urls []string) error {
	for _, raw := range urls {
		if err := ValidateAttachmentURL(raw); err != nil {
			return err
		}
	}
	return nil
}

// copyAttachments stores the references exactly as submitted.
func copyAttachments(urls []string) []string {
	result := make([]string, 0, len(urls))
	result = append(result, urls...)
	return result
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, actorID string, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
