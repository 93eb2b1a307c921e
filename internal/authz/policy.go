package authz

import (
	"github.com/ghostflow/agency-service/internal/domain"
	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

// Action identifies an operation submitted for authorization.
type Action string

const (
	ActionCreateTicket        Action = "create_ticket"
	ActionChangeTicketStatus  Action = "change_ticket_status"
	ActionUpdateTicketDetails Action = "update_ticket_details"
	ActionAssignTicket        Action = "assign_ticket"
	ActionReadTicket          Action = "read_ticket"
	ActionCommentTicket       Action = "comment_ticket"
	ActionManageSubscription  Action = "manage_subscription"
	ActionListEmployees       Action = "list_employees"
)

// Resource carries the entity an action targets, when one exists.
// Actions like create_ticket are resource-free.
type Resource struct {
	Ticket       *domain.Ticket
	Subscription *domain.Subscription
}

// Authorize is the single decision point for every core operation.
// It returns nil to allow, or a typed error with a stable reason code
// (NOT_AUTHENTICATED or FORBIDDEN) to deny. Rules are evaluated in
// the documented precedence: authentication first, then role, then
// ownership.
func Authorize(actor *domain.User, action Action, res Resource) error {
	if actor == nil {
		return apperrors.NewNotAuthenticated("authentication required")
	}

	switch action {
	case ActionCreateTicket:
		if !actor.IsClient() {
			return apperrors.NewForbidden("only clients create tickets")
		}
		return nil

	case ActionChangeTicketStatus:
		if res.Ticket == nil {
			return apperrors.NewForbidden("ticket required")
		}
		if actor.CanAccessStaffArea() {
			return nil
		}
		if actor.IsClient() && res.Ticket.ClientID == actor.ID {
			return nil
		}
		return apperrors.NewForbidden("not the ticket owner")

	case ActionUpdateTicketDetails:
		if !actor.CanAccessStaffArea() {
			return apperrors.NewForbidden("staff role required")
		}
		return nil

	case ActionAssignTicket:
		if !actor.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return nil

	case ActionReadTicket, ActionCommentTicket:
		if res.Ticket == nil {
			return apperrors.NewForbidden("ticket required")
		}
		if actor.CanAccessStaffArea() {
			return nil
		}
		if actor.IsClient() && res.Ticket.ClientID == actor.ID {
			return nil
		}
		return apperrors.NewForbidden("no access to ticket")

	case ActionManageSubscription:
		if res.Subscription == nil {
			return apperrors.NewForbidden("subscription required")
		}
		if actor.IsClient() && res.Subscription.ClientID == actor.ID {
			return nil
		}
		return apperrors.NewForbidden("not the subscription owner")

	case ActionListEmployees:
		if !actor.CanAccessStaffArea() {
			return apperrors.NewForbidden("staff role required")
		}
		return nil
	}

	return apperrors.NewForbidden("unknown action")
}
