package dto

import (
	"time"

	"github.com/ghostflow/agency-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// RegisterRequest payload for client signup and admin provisioning.
type RegisterRequest struct {
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Password  string       `json:"password"`
	AvatarURL *string      `json:"avatar_url"`
	Role      *domain.Role `json:"role,omitempty"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	AvatarURL *string     `json:"avatar_url,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// CurrentUserResponse joins the account with its optional subscription.
type CurrentUserResponse struct {
	UserResponse
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}
