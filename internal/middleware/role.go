package middleware

import (
	"github.com/labstack/echo/v4"

	apperrors "cartify/internal/errors"
	"cartify/internal/model"
)

// RequireRole enforces that the session user has one of the given roles.
// It must run after RequireSession.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := CurrentUser(c)
			if err != nil {
				return err
			}
			if !allowed[user.Role] {
				if allowed[model.RoleAdmin] {
					return apperrors.ErrAdminRequired
				}
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}
