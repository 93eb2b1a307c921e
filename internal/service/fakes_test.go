package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ghostflow/agency-service/internal/domain"
	"github.com/ghostflow/agency-service/internal/events"
)

// In-memory fakes for the repository interfaces. They mirror the
// Postgres implementations' contracts, notably pgx.ErrNoRows on row
// misses and the conditional-update semantics of Pause/Resume/Assign.

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)}
}

// Tick returns a strictly increasing timestamp so created_at ordering
// is deterministic.
func (c *fakeClock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
	clock *fakeClock
}

func newFakeUserRepo(clock *fakeClock) *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), clock: clock}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	user.ID = fmt.Sprintf("user-%d", r.seq)
	user.CreatedAt = r.clock.Tick()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListEmployees(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Role == domain.RoleEmployee {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeSubscriptionRepo struct {
	mu    sync.Mutex
	seq   int
	subs  map[string]*domain.Subscription // keyed by client id
	clock *fakeClock
}

func newFakeSubscriptionRepo(clock *fakeClock) *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*domain.Subscription), clock: clock}
}

func (r *fakeSubscriptionRepo) Create(ctx context.Context, sub *domain.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	sub.ID = fmt.Sprintf("sub-%d", r.seq)
	now := r.clock.Tick()
	sub.CurrentPeriodStart = now
	sub.CreatedAt = now
	sub.UpdatedAt = now
	clone := *sub
	r.subs[sub.ClientID] = &clone
	return nil
}

func (r *fakeSubscriptionRepo) GetByClientID(ctx context.Context, clientID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[clientID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *sub
	return &clone, nil
}

func (r *fakeSubscriptionRepo) Pause(ctx context.Context, clientID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[clientID]
	if !ok || sub.Status != domain.SubscriptionStatusActive {
		return nil, pgx.ErrNoRows
	}
	now := r.clock.Tick()
	sub.Status = domain.SubscriptionStatusPaused
	sub.PausedAt = &now
	sub.UpdatedAt = now
	clone := *sub
	return &clone, nil
}

func (r *fakeSubscriptionRepo) Resume(ctx context.Context, clientID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[clientID]
	if !ok || sub.Status != domain.SubscriptionStatusPaused {
		return nil, pgx.ErrNoRows
	}
	now := r.clock.Tick()
	sub.Status = domain.SubscriptionStatusActive
	sub.ResumedAt = &now
	sub.UpdatedAt = now
	clone := *sub
	return &clone, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	tickets map[string]*domain.Ticket
	users   *fakeUserRepo
	clock   *fakeClock
}

func newFakeTicketRepo(users *fakeUserRepo, clock *fakeClock) *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket), users: users, clock: clock}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	now := r.clock.Tick()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	clone := *ticket
	clone.Client = nil
	clone.Assignee = nil
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	ticket, ok := r.tickets[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	r.mu.Unlock()
	return r.expand(ctx, &clone)
}

func (r *fakeTicketRepo) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	ticket, ok := r.tickets[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	ticket.Status = status
	ticket.UpdatedAt = r.clock.Tick()
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeTicketRepo) UpdateDetails(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tickets[ticket.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Title = ticket.Title
	stored.Description = ticket.Description
	stored.Priority = ticket.Priority
	stored.Attachments = ticket.Attachments
	stored.UpdatedAt = r.clock.Tick()
	return nil
}

func (r *fakeTicketRepo) Assign(ctx context.Context, id, assigneeID string) (*domain.Ticket, error) {
	r.mu.Lock()
	ticket, ok := r.tickets[id]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	ticket.AssigneeID = &assigneeID
	ticket.Status = domain.TicketStatusInProgress
	ticket.UpdatedAt = r.clock.Tick()
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeTicketRepo) ListByClient(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	return r.listWhere(ctx, func(t *domain.Ticket) bool { return t.ClientID == clientID })
}

func (r *fakeTicketRepo) ListByAssignee(ctx context.Context, assigneeID string) ([]domain.Ticket, error) {
	return r.listWhere(ctx, func(t *domain.Ticket) bool {
		return t.AssigneeID != nil && *t.AssigneeID == assigneeID
	})
}

func (r *fakeTicketRepo) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	return r.listWhere(ctx, func(*domain.Ticket) bool { return true })
}

func (r *fakeTicketRepo) listWhere(ctx context.Context, match func(*domain.Ticket) bool) ([]domain.Ticket, error) {
	r.mu.Lock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if match(ticket) {
			result = append(result, *ticket)
		}
	}
	r.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	for i := range result {
		if _, err := r.expand(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) expand(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	client, err := r.users.GetByID(ctx, ticket.ClientID)
	if err != nil {
		return nil, err
	}
	ticket.Client = client
	if ticket.AssigneeID != nil {
		assignee, err := r.users.GetByID(ctx, *ticket.AssigneeID)
		if err != nil {
			return nil, err
		}
		ticket.Assignee = assignee
	}
	return ticket, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments []domain.Comment
	clock    *fakeClock
}

func newFakeCommentRepo(clock *fakeClock) *fakeCommentRepo {
	return &fakeCommentRepo{clock: clock}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	comment.ID = fmt.Sprintf("comment-%d", r.seq)
	comment.CreatedAt = r.clock.Tick()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Comment
	for _, comment := range r.comments {
		if comment.TicketID == ticketID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *recordingDispatcher) Types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	types := make([]events.EventType, 0, len(d.events))
	for _, event := range d.events {
		types = append(types, event.Type)
	}
	return types
}
