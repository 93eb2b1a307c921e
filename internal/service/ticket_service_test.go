package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostflow/agency-service/internal/domain"
	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

type ticketFixture struct {
	service    *TicketService
	users      *fakeUserRepo
	tickets    *fakeTicketRepo
	comments   *fakeCommentRepo
	dispatcher *recordingDispatcher
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	clock := newFakeClock()
	users := newFakeUserRepo(clock)
	tickets := newFakeTicketRepo(users, clock)
	comments := newFakeCommentRepo(clock)
	dispatcher := &recordingDispatcher{}
	return &ticketFixture{
		service: NewTicketService(TicketDependencies{
			TicketRepo:  tickets,
			CommentRepo: comments,
			UserRepo:    users,
			Dispatcher:  dispatcher,
		}),
		users:      users,
		tickets:    tickets,
		comments:   comments,
		dispatcher: dispatcher,
	}
}

func (f *ticketFixture) user(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Email: name + "@test.dev", Name: name, Role: role}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *ticketFixture) ticket(t *testing.T, client *domain.User, title string) *domain.Ticket {
	t.Helper()
	ticket, err := f.service.Create(context.Background(), client, TicketCreateInput{
		Title:       title,
		Description: "some design work",
	})
	require.NoError(t, err)
	return ticket
}

func TestCreateTicketDefaults(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)

	ticket, err := f.service.Create(context.Background(), client, TicketCreateInput{
		Title:       "Landing Page",
		Description: "Hero section refresh",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusRequested, ticket.Status)
	assert.Nil(t, ticket.AssigneeID)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
	assert.Equal(t, client.ID, ticket.ClientID)
}

func TestCreateTicketValidation(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)

	tests := []struct {
		name  string
		input TicketCreateInput
	}{
		{
			name:  "empty title",
			input: TicketCreateInput{Title: "  ", Description: "desc"},
		},
		{
			name:  "empty description",
			input: TicketCreateInput{Title: "Logo", Description: ""},
		},
		{
			name:  "unknown priority",
			input: TicketCreateInput{Title: "Logo", Description: "desc", Priority: "urgent"},
		},
		{
			name:  "malformed attachment url",
			input: TicketCreateInput{Title: "Logo", Description: "desc", Attachments: []string{"not a url"}},
		},
		{
			name:  "non-http attachment scheme",
			input: TicketCreateInput{Title: "Logo", Description: "desc", Attachments: []string{"ftp://example.com/file.png"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), client, tt.input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestCreateTicketRequiresClientRole(t *testing.T) {
	f := newTicketFixture(t)
	employee := f.user(t, "employee", domain.RoleEmployee)

	_, err := f.service.Create(context.Background(), employee, TicketCreateInput{
		Title:       "Logo",
		Description: "desc",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestCreateTicketStoresAttachmentsVerbatim(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)

	// references pass validation after trimming but are stored exactly
	// as submitted, surrounding whitespace included
	urls := []string{"https://cdn.test.dev/mock.png", "http://cdn.test.dev/brief.pdf", " https://cdn.test.dev/moodboard.png "}
	ticket, err := f.service.Create(context.Background(), client, TicketCreateInput{
		Title:       "Brand kit",
		Description: "desc",
		Attachments: urls,
	})
	require.NoError(t, err)
	assert.Equal(t, urls, ticket.Attachments)
}

func TestChangeStatusByOwner(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	ticket := f.ticket(t, client, "Logo")

	updated, err := f.service.ChangeStatus(context.Background(), client, ticket.ID, domain.TicketStatusReview)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusReview, updated.Status)
}

func TestChangeStatusRejectsUnknownValue(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	ticket := f.ticket(t, client, "Logo")

	_, err := f.service.ChangeStatus(context.Background(), client, ticket.ID, "archived")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestChangeStatusOtherClientsTicketForbidden(t *testing.T) {
	f := newTicketFixture(t)
	owner := f.user(t, "owner", domain.RoleClient)
	other := f.user(t, "other", domain.RoleClient)
	ticket := f.ticket(t, owner, "Logo")

	_, err := f.service.ChangeStatus(context.Background(), other, ticket.ID, domain.TicketStatusCompleted)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestChangeStatusCompletedIsNotTerminal(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	admin := f.user(t, "admin", domain.RoleAdmin)
	ticket := f.ticket(t, client, "Logo")

	_, err := f.service.ChangeStatus(context.Background(), admin, ticket.ID, domain.TicketStatusCompleted)
	require.NoError(t, err)

	reopened, err := f.service.ChangeStatus(context.Background(), admin, ticket.ID, domain.TicketStatusRequested)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusRequested, reopened.Status)
}

func TestAssignForcesInProgress(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	admin := f.user(t, "admin", domain.RoleAdmin)
	employee := f.user(t, "employee", domain.RoleEmployee)

	tests := []struct {
		name string
		from domain.TicketStatus
	}{
		{name: "from requested", from: domain.TicketStatusRequested},
		{name: "from review", from: domain.TicketStatusReview},
		{name: "from completed", from: domain.TicketStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := f.ticket(t, client, "Logo "+tt.name)
			if tt.from != domain.TicketStatusRequested {
				_, err := f.service.ChangeStatus(context.Background(), admin, ticket.ID, tt.from)
				require.NoError(t, err)
			}

			assigned, err := f.service.Assign(context.Background(), admin, ticket.ID, employee.ID)
			require.NoError(t, err)

			assert.Equal(t, domain.TicketStatusInProgress, assigned.Status)
			require.NotNil(t, assigned.AssigneeID)
			assert.Equal(t, employee.ID, *assigned.AssigneeID)
		})
	}
}

func TestAssignRequiresAdmin(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	employee := f.user(t, "employee", domain.RoleEmployee)
	ticket := f.ticket(t, client, "Logo")

	for _, actor := range []*domain.User{client, employee} {
		_, err := f.service.Assign(context.Background(), actor, ticket.ID, employee.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
	}
}

func TestAssignValidatesAssignee(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	admin := f.user(t, "admin", domain.RoleAdmin)
	otherClient := f.user(t, "other", domain.RoleClient)
	ticket := f.ticket(t, client, "Logo")

	_, err := f.service.Assign(context.Background(), admin, ticket.ID, "missing-user")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	_, err = f.service.Assign(context.Background(), admin, ticket.ID, otherClient.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestListForClientOnlyOwnTickets(t *testing.T) {
	f := newTicketFixture(t)
	alice := f.user(t, "alice", domain.RoleClient)
	bob := f.user(t, "bob", domain.RoleClient)
	f.ticket(t, alice, "Alice 1")
	f.ticket(t, bob, "Bob 1")
	f.ticket(t, alice, "Alice 2")

	tickets, err := f.service.ListFor(context.Background(), alice)
	require.NoError(t, err)

	require.Len(t, tickets, 2)
	for _, ticket := range tickets {
		assert.Equal(t, alice.ID, ticket.ClientID)
	}
	// newest first
	assert.Equal(t, "Alice 2", tickets[0].Title)
	assert.Equal(t, "Alice 1", tickets[1].Title)
}

func TestListForEmployeeOnlyAssignedTickets(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	admin := f.user(t, "admin", domain.RoleAdmin)
	mine := f.user(t, "mine", domain.RoleEmployee)
	theirs := f.user(t, "theirs", domain.RoleEmployee)

	assignedToMe := f.ticket(t, client, "Mine")
	assignedToThem := f.ticket(t, client, "Theirs")
	f.ticket(t, client, "Unassigned")

	_, err := f.service.Assign(context.Background(), admin, assignedToMe.ID, mine.ID)
	require.NoError(t, err)
	_, err = f.service.Assign(context.Background(), admin, assignedToThem.ID, theirs.ID)
	require.NoError(t, err)

	tickets, err := f.service.ListFor(context.Background(), mine)
	require.NoError(t, err)

	require.Len(t, tickets, 1)
	require.NotNil(t, tickets[0].AssigneeID)
	assert.Equal(t, mine.ID, *tickets[0].AssigneeID)
}

func TestListForAdminSeesEverything(t *testing.T) {
	f := newTicketFixture(t)
	alice := f.user(t, "alice", domain.RoleClient)
	bob := f.user(t, "bob", domain.RoleClient)
	admin := f.user(t, "admin", domain.RoleAdmin)
	f.ticket(t, alice, "Alice 1")
	f.ticket(t, bob, "Bob 1")

	tickets, err := f.service.ListFor(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, tickets, 2)
}

func TestListForExpandsIdentities(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	admin := f.user(t, "admin", domain.RoleAdmin)
	employee := f.user(t, "employee", domain.RoleEmployee)
	ticket := f.ticket(t, client, "Logo")

	_, err := f.service.Assign(context.Background(), admin, ticket.ID, employee.ID)
	require.NoError(t, err)

	tickets, err := f.service.ListFor(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	require.NotNil(t, tickets[0].Client)
	assert.Equal(t, client.ID, tickets[0].Client.ID)
	require.NotNil(t, tickets[0].Assignee)
	assert.Equal(t, employee.ID, tickets[0].Assignee.ID)
}

func TestInternalCommentsHiddenFromClients(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	employee := f.user(t, "employee", domain.RoleEmployee)
	ticket := f.ticket(t, client, "Logo")

	_, err := f.service.AddComment(context.Background(), client, ticket.ID, "looks good", false)
	require.NoError(t, err)
	_, err = f.service.AddComment(context.Background(), employee, ticket.ID, "scope creep, watch out", true)
	require.NoError(t, err)

	clientView, err := f.service.ListComments(context.Background(), client, ticket.ID)
	require.NoError(t, err)
	require.Len(t, clientView, 1)
	assert.Equal(t, "looks good", clientView[0].Content)

	staffView, err := f.service.ListComments(context.Background(), employee, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, staffView, 2)
}

func TestClientCannotAuthorInternalComment(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	ticket := f.ticket(t, client, "Logo")

	_, err := f.service.AddComment(context.Background(), client, ticket.ID, "sneaky", true)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestUnauthenticatedListDenied(t *testing.T) {
	f := newTicketFixture(t)

	tickets, err := f.service.ListFor(context.Background(), nil)
	require.Error(t, err)
	assert.Nil(t, tickets)
	assert.True(t, apperrors.IsCode(err, "NOT_AUTHENTICATED"))
}

// Full workflow: create, assign, review, and a client attempting
// staff-only assignment.
func TestTicketLifecycleScenario(t *testing.T) {
	f := newTicketFixture(t)
	client := f.user(t, "client", domain.RoleClient)
	admin := f.user(t, "admin", domain.RoleAdmin)
	employee := f.user(t, "employee", domain.RoleEmployee)

	ticket, err := f.service.Create(context.Background(), client, TicketCreateInput{
		Title:       "Landing Page",
		Description: "New campaign landing page",
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusRequested, ticket.Status)
	assert.Nil(t, ticket.AssigneeID)

	assigned, err := f.service.Assign(context.Background(), admin, ticket.ID, employee.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, assigned.Status)
	require.NotNil(t, assigned.AssigneeID)
	assert.Equal(t, employee.ID, *assigned.AssigneeID)

	reviewed, err := f.service.ChangeStatus(context.Background(), employee, ticket.ID, domain.TicketStatusReview)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusReview, reviewed.Status)

	_, err = f.service.Assign(context.Background(), client, ticket.ID, employee.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}
