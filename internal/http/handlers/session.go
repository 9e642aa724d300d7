package handlers

import (
	"encoding/json"
	"strconv"

	"shopease/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ensureSID guarantees every request carries a session id cookie; guests
// get one minted on first contact.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable behind TLS
		})
	}
	return sid
}

// currentUser returns the signed-in user placed in Locals by the session
// middleware, or nil for guests.
func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// owner resolves the cart/wishlist partition for this request: the user's
// persistent one when signed in, the guest session's otherwise.
func owner(c *fiber.Ctx) domain.CartOwner {
	if u := currentUser(c); u != nil {
		return domain.UserOwner(u.ID)
	}
	return domain.GuestOwner(ensureSID(c))
}

func jsonErr(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// flexID accepts a JSON string or number; the legacy front end sends
// product ids both ways.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

func (f flexID) String() string { return string(f) }

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}
