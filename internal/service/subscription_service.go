package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ghostflow/agency-service/internal/authz"
	"github.com/ghostflow/agency-service/internal/domain"
	"github.com/ghostflow/agency-service/internal/events"
	"github.com/ghostflow/agency-service/internal/repository"
	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

// SubscriptionService drives the pause/resume ledger state machine.
// Pause and resume are tied to the session's own identity: a client
// manages only its own subscription.
type SubscriptionService struct {
	subscriptions repository.SubscriptionRepository
	dispatcher    events.Dispatcher
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(subscriptions repository.SubscriptionRepository, dispatcher events.Dispatcher) *SubscriptionService {
	return &SubscriptionService{subscriptions: subscriptions, dispatcher: dispatcher}
}

// Get returns the actor's own subscription.
func (s *SubscriptionService) Get(ctx context.Context, actor *domain.User) (*domain.Subscription, error) {
	sub, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Pause transitions the actor's subscription from active to paused.
// Pausing an already-paused (or cancelled) subscription fails with
// INVALID_STATE rather than silently succeeding.
func (s *SubscriptionService) Pause(ctx context.Context, actor *domain.User) (*domain.Subscription, error) {
	current, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !current.CanPause() {
		return nil, apperrors.NewInvalidState("subscription is not active", map[string]any{"status": current.Status})
	}

	updated, err := s.subscriptions.Pause(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The conditional update lost a race: the status changed
			// between the read and the write.
			return nil, apperrors.NewInvalidState("subscription is not active", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventSubscriptionPaused, actor.ID, updated)
	return updated, nil
}

// Resume transitions the actor's subscription from paused to active.
func (s *SubscriptionService) Resume(ctx context.Context, actor *domain.User) (*domain.Subscription, error) {
	current, err := s.load(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !current.CanResume() {
		return nil, apperrors.NewInvalidState("subscription is not paused", map[string]any{"status": current.Status})
	}

	updated, err := s.subscriptions.Resume(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInvalidState("subscription is not paused", nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventSubscriptionResumed, actor.ID, updated)
	return updated, nil
}

func (s *SubscriptionService) load(ctx context.Context, actor *domain.User) (*domain.Subscription, error) {
	if actor == nil {
		return nil, apperrors.NewNotAuthenticated("authentication required")
	}
	sub, err := s.subscriptions.GetByClientID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("subscription", map[string]any{"client_id": actor.ID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := authz.Authorize(actor, authz.ActionManageSubscription, authz.Resource{Subscription: sub}); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubscriptionService) publish(ctx context.Context, eventType events.EventType, actorID string, sub *domain.Subscription) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now(),
		Payload: events.SubscriptionPayload{
			SubscriptionID: sub.ID,
			ClientID:       sub.ClientID,
			Status:         sub.Status,
		},
	})
}
