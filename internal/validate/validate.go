package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	rePromo = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 64 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Password enforces a simple length window; the original accepts anything
// non-empty, so no character-class rules here.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

// Qty parses a quantity, defaulting to 1 and clamping to avoid abuse.
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

// Rating clamps a review rating into 1..5, defaulting to 5.
func Rating(n int) int {
	if n < 1 {
		if n == 0 {
			return 5
		}
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

// PromoCode validates the shape of a discount code before lookup.
func PromoCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && rePromo.MatchString(s)
}

// ID validates a simple resource identifier (product ids, gateway ids are
// checked separately by the payment service).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 40 {
		return "", false
	}
	return s, true
}
