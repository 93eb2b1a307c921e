package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ghostflow/agency-service/internal/auth"
	"github.com/ghostflow/agency-service/internal/authz"
	"github.com/ghostflow/agency-service/internal/config"
	"github.com/ghostflow/agency-service/internal/domain"
	"github.com/ghostflow/agency-service/internal/repository"
	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

// AuthService covers login, logout, signup and account provisioning.
type AuthService struct {
	cfg           config.Config
	users         repository.UserRepository
	subscriptions repository.SubscriptionRepository
	sessions      auth.SessionStore
	tokens        *auth.TokenManager
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo         repository.UserRepository
	SubscriptionRepo repository.SubscriptionRepository
	Sessions         auth.SessionStore
	Tokens           *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	tokens := deps.Tokens
	if tokens == nil {
		tokens = auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL())
	}
	return &AuthService{
		cfg:           cfg,
		users:         deps.UserRepo,
		subscriptions: deps.SubscriptionRepo,
		sessions:      deps.Sessions,
		tokens:        tokens,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// LoginResult carries the issued session token.
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotAuthenticated("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewNotAuthenticated("invalid credentials")
	}

	sessionID := uuid.NewString()
	if err := s.sessions.Put(ctx, sessionID, user.ID, s.tokens.TTL()); err != nil {
		return nil, apperrors.MapError(err)
	}
	token, expiresAt, err := s.tokens.GenerateToken(user.ID, sessionID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// Logout revokes the session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// RegisterInput describes account creation payload.
type RegisterInput struct {
	Email     string
	Name      string
	Password  string
	AvatarURL *string
}

// RegisterClient provisions a client account together with its
// subscription ledger (defaults from configuration).
func (s *AuthService) RegisterClient(ctx context.Context, input RegisterInput) (*domain.User, *domain.Subscription, error) {
	user, err := s.createUser(ctx, input, domain.RoleClient)
	if err != nil {
		return nil, nil, err
	}

	totalDays := s.cfg.Subscription.DefaultTotalDays
	if totalDays < 0 {
		totalDays = 0
	}
	sub := &domain.Subscription{
		ClientID:      user.ID,
		Status:        domain.SubscriptionStatusActive,
		TotalDays:     totalDays,
		DaysUsed:      0,
		DaysRemaining: totalDays,
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		return nil, nil, apperrors.MapError(err)
	}
	return user, sub, nil
}

// ProvisionUser lets an admin create an account with any role.
func (s *AuthService) ProvisionUser(ctx context.Context, actor *domain.User, input RegisterInput, role domain.Role) (*domain.User, error) {
	if actor == nil {
		return nil, apperrors.NewNotAuthenticated("authentication required")
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if role == domain.RoleClient {
		user, _, err := s.RegisterClient(ctx, input)
		return user, err
	}
	return s.createUser(ctx, input, role)
}

func (s *AuthService) createUser(ctx context.Context, input RegisterInput, role domain.Role) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	name := strings.TrimSpace(input.Name)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.NewValidationError("invalid email", map[string]any{"email": input.Email})
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		AvatarURL:    input.AvatarURL,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UserWithSubscription joins an account with its optional ledger.
type UserWithSubscription struct {
	User         *domain.User
	Subscription *domain.Subscription
}

// CurrentUser returns the account plus its subscription when one exists.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*UserWithSubscription, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	result := &UserWithSubscription{User: user}

	sub, err := s.subscriptions.GetByClientID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	} else {
		result.Subscription = sub
	}
	return result, nil
}

// ListEmployees returns the staff roster for the assignment picker.
func (s *AuthService) ListEmployees(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := authz.Authorize(actor, authz.ActionListEmployees, authz.Resource{}); err != nil {
		return nil, err
	}
	employees, err := s.users.ListEmployees(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employees, nil
}
