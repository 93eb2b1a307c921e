package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ghostflow/agency-service/internal/api/dto"
	"github.com/ghostflow/agency-service/internal/auth"
	"github.com/ghostflow/agency-service/internal/domain"
	"github.com/ghostflow/agency-service/internal/service"
	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

// AuthHandler manages login, logout and account endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User:      dto.NewUserResponse(result.User),
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
	}})
}

// Logout POST /api/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewNotAuthenticated("authentication required")
	}
	if err := h.service.Logout(c.UserContext(), principal.SessionID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// Register POST /api/register — client self-signup.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, sub, err := h.service.RegisterClient(c.UserContext(), service.RegisterInput{
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return err
	}
	resp := dto.CurrentUserResponse{UserResponse: dto.NewUserResponse(user)}
	if sub != nil {
		subResp := dto.NewSubscriptionResponse(sub)
		resp.Subscription = &subResp
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// ProvisionUser POST /api/admin/users — admin creates any role.
func (h *AuthHandler) ProvisionUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewNotAuthenticated("authentication required")
	}
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role := domain.RoleClient
	if req.Role != nil {
		role = *req.Role
	}
	user, err := h.service.ProvisionUser(c.UserContext(), principal.User, service.RegisterInput{
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		AvatarURL: req.AvatarURL,
	}, role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// CurrentUser GET /api/user.
func (h *AuthHandler) CurrentUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewNotAuthenticated("authentication required")
	}
	result, err := h.service.CurrentUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	resp := dto.CurrentUserResponse{UserResponse: dto.NewUserResponse(result.User)}
	if result.Subscription != nil {
		subResp := dto.NewSubscriptionResponse(result.Subscription)
		resp.Subscription = &subResp
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListEmployees GET /api/admin/employees.
func (h *AuthHandler) ListEmployees(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewNotAuthenticated("authentication required")
	}
	employees, err := h.service.ListEmployees(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(employees))
	for i := range employees {
		items = append(items, dto.NewUserResponse(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
