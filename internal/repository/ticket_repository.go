package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghostflow/agency-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. List queries
// expand client and assignee identities and order by creation time
// descending; the scoping WHERE clause is the visibility boundary, so
// callers never post-filter.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
	UpdateDetails(ctx context.Context, ticket *domain.Ticket) error
	Assign(ctx context.Context, id, assigneeID string) (*domain.Ticket, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketSelect = `
        SELECT t.id, t.client_id, t.assignee_id, t.title, t.description, t.status, t.priority,
               t.attachments, t.created_at, t.updated_at,
               c.id, c.email, c.name, c.role, c.avatar_url,
               a.id, a.email, a.name, a.role, a.avatar_url
        FROM tickets t
        JOIN users c ON c.id = t.client_id
        LEFT JOIN users a ON a.id = t.assignee_id`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (client_id, title, description, status, priority, attachments)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ticket.ClientID,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.Attachments,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := ticketSelect + ` WHERE t.id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	ticket, err := scanExpandedTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET status=$2, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *ticketRepository) UpdateDetails(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$2, description=$3, priority=$4, attachments=$5, updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Attachments,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Assign binds the assignee and forces status to in_progress in one
// atomic update, so the unassigned queue (assignee_id IS NULL) and
// the status column can never disagree mid-flight.
func (r *ticketRepository) Assign(ctx context.Context, id, assigneeID string) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets SET assignee_id=$2, status='in_progress', updated_at=NOW()
        WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id, assigneeID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, id)
}

func (r *ticketRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	query := ticketSelect + ` WHERE t.client_id=$1 ORDER BY t.created_at DESC`
	return r.list(ctx, query, clientID)
}

func (r *ticketRepository) ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Ticket, error) {
	query := ticketSelect + ` WHERE t.assignee_id=$1 ORDER BY t.created_at DESC`
	return r.list(ctx, query, assigneeID)
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := ticketSelect + ` ORDER BY t.created_at DESC`
	return r.list(ctx, query)
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanExpandedTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanExpandedTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		ticket domain.Ticket
		client domain.User

		assigneeID     *string
		assigneeEmail  *string
		assigneeName   *string
		assigneeRole   *domain.Role
		assigneeAvatar *string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.ClientID,
		&ticket.AssigneeID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Attachments,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&client.ID,
		&client.Email,
		&client.Name,
		&client.Role,
		&client.AvatarURL,
		&assigneeID,
		&assigneeEmail,
		&assigneeName,
		&assigneeRole,
		&assigneeAvatar,
	); err != nil {
		return nil, err
	}
	ticket.Client = &client
	if assigneeID != nil {
		ticket.Assignee = &domain.User{
			ID:        *assigneeID,
			Email:     *assigneeEmail,
			Name:      *assigneeName,
			Role:      *assigneeRole,
			AvatarURL: assigneeAvatar,
		}
	}
	return &ticket, nil
}
