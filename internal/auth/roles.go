package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/ghostflow/agency-service/pkg/util"
)

// RequireClient ensures a client account is authenticated.
func RequireClient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewNotAuthenticated("authentication required")
		}
		if !principal.User.IsClient() {
			return apperrors.NewForbidden("client account required")
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller is an employee or admin.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewNotAuthenticated("authentication required")
		}
		if !principal.User.CanAccessStaffArea() {
			return apperrors.NewForbidden("staff role required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the caller is an administrator.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewNotAuthenticated("authentication required")
		}
		if !principal.User.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewNotAuthenticated("authentication required")
		}
		return c.Next()
	}
}
