package handlers

import (
	"errors"
	"time"

	applog "shopease/internal/log"
	"shopease/internal/services"
	"shopease/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credsReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/signup
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var req credsReq
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return jsonErr(c, fiber.StatusBadRequest, "email and password required")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return jsonErr(c, fiber.StatusBadRequest, "invalid email")
	}
	if !validate.Password(req.Password) {
		return jsonErr(c, fiber.StatusBadRequest, "invalid password")
	}

	u, err := h.Auth.Signup(sid, email, req.Name, req.Password)
	if errors.Is(err, services.ErrEmailTaken) {
		applog.Security(c, "auth.signup.conflict", map[string]any{"email": email})
		return jsonErr(c, fiber.StatusConflict, "email already registered")
	}
	if err != nil {
		applog.Error(c, "auth.signup.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "signup failed")
	}

	applog.Audit(c, "auth.signup", map[string]any{"email": email})
	return c.JSON(fiber.Map{"ok": true, "user": u})
}

// POST /api/signin
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var req credsReq
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return jsonErr(c, fiber.StatusBadRequest, "email/password required")
	}

	u, err := h.Auth.Signin(sid, req.Email, req.Password)
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.signin.fail", map[string]any{"email": req.Email})
		return jsonErr(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		applog.Error(c, "auth.signin.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "signin failed")
	}

	applog.Audit(c, "auth.signin", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"ok": true, "user": u})
}

// POST /api/signout
func (h *AuthHandler) Signout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		if err := h.Auth.Signout(sid); err != nil {
			applog.Error(c, "auth.signout.fail", err, nil)
			return jsonErr(c, fiber.StatusInternalServerError, "failed")
		}
	}
	// Expire the cookie; the next visit starts a fresh guest session.
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.signout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// GET /api/account
func (h *AuthHandler) Account(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}
	return c.JSON(fiber.Map{"user": u})
}
