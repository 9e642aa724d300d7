package handlers

import (
	applog "shopease/internal/log"
	"shopease/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser rejects anonymous requests with 401.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentUser(c) != nil {
			return c.Next()
		}
		sid := c.Cookies("sid")
		if sid == "" {
			return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
		}
		c.Locals("user", u)
		c.Locals("uid", u.ID)
		return c.Next()
	}
}

// RequireAdmin additionally checks the ADMIN role.
func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := currentUser(c)
		if u == nil {
			sid := c.Cookies("sid")
			if sid != "" {
				if su, err := auth.CurrentUser(sid); err == nil {
					u = su
					c.Locals("user", u)
					c.Locals("uid", u.ID)
				}
			}
		}
		if u == nil || u.Role != "ADMIN" {
			applog.Security(c, "access.denied.admin", nil)
			return jsonErr(c, fiber.StatusForbidden, "Unauthorized")
		}
		return c.Next()
	}
}
