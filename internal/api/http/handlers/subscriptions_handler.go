package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ghostflow/agency-service/internal/api/dto"
	"github.com/ghostflow/agency-service/internal/auth"
	"github.com/ghostflow/agency-service/internal/service"
	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

// SubscriptionsHandler manages the client subscription endpoints.
type SubscriptionsHandler struct {
	service *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptionService *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{service: subscriptionService}
}

// GetSubscription GET /api/subscription.
func (h *SubscriptionsHandler) GetSubscription(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewNotAuthenticated("authentication required")
	}
	sub, err := h.service.Get(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubscriptionResponse(sub)})
}

// PauseSubscription POST /api/subscriptions/pause.
func (h *SubscriptionsHandler) PauseSubscription(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewNotAuthenticated("authentication required")
	}
	sub, err := h.service.Pause(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubscriptionResponse(sub)})
}

// ResumeSubscription POST /api/subscriptions/resume.
func (h *SubscriptionsHandler) ResumeSubscription(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewNotAuthenticated("authentication required")
	}
	sub, err := h.service.Resume(c.UserContext(), principal.User)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubscriptionResponse(sub)})
}
