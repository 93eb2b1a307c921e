package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ghostflow/agency-service/internal/domain"
)

// SubscriptionRepository encapsulates ledger persistence. Pause and
// Resume are compare-and-set updates: the WHERE clause carries the
// expected current status so two concurrent transitions cannot
// interleave.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	GetByClientID(ctx context.Context, clientID string) (*domain.Subscription, error)
	Pause(ctx context.Context, clientID string) (*domain.Subscription, error)
	Resume(ctx context.Context, clientID string) (*domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, client_id, status, total_days, days_used, days_remaining,
               current_period_start, paused_at, resumed_at, created_at, updated_at`

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (client_id, status, total_days, days_used, days_remaining)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, current_period_start, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		sub.ClientID,
		sub.Status,
		sub.TotalDays,
		sub.DaysUsed,
		sub.DaysRemaining,
	).Scan(&sub.ID, &sub.CurrentPeriodStart, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriptionRepository) GetByClientID(ctx context.Context, clientID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE client_id=$1`
	return r.fetchSingle(ctx, query, clientID)
}

// Pause flips active -> paused in a single conditional update. A row
// miss means either the subscription does not exist or it was not
// active; pgx.ErrNoRows is returned and the caller distinguishes.
func (r *subscriptionRepository) Pause(ctx context.Context, clientID string) (*domain.Subscription, error) {
	query := `
        UPDATE subscriptions
        SET status='paused', paused_at=NOW(), updated_at=NOW()
        WHERE client_id=$1 AND status='active'
        RETURNING ` + subscriptionColumns
	return r.fetchSingle(ctx, query, clientID)
}

// Resume flips paused -> active under the same conditional-update contract.
func (r *subscriptionRepository) Resume(ctx context.Context, clientID string) (*domain.Subscription, error) {
	query := `
        UPDATE subscriptions
        SET status='active', resumed_at=NOW(), updated_at=NOW()
        WHERE client_id=$1 AND status='paused'
        RETURNING ` + subscriptionColumns
	return r.fetchSingle(ctx, query, clientID)
}

func (r *subscriptionRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&sub.ID,
		&sub.ClientID,
		&sub.Status,
		&sub.TotalDays,
		&sub.DaysUsed,
		&sub.DaysRemaining,
		&sub.CurrentPeriodStart,
		&sub.PausedAt,
		&sub.ResumedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
