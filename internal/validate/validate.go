package validate

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reQ        = regexp.MustCompile(`^[\p{L}\p{N} _'.\-]{1,50}$`)
	reID       = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)
)

const (
	MaxNameLen    = 100
	MaxCommentLen = 2000
	PriceScale    = 2
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Q validates a search query: trims, enforces allowed characters and max length
func Q(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > 50 {
		s = s[:50]
	}
	return s, reQ.MatchString(s)
}

// ID validates a simple resource identifier (uuid or seeded slug).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Name validates a required display name (product or category).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxNameLen {
		return "", false
	}
	return s, true
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password enforces a length window and a mix of character classes.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 72 { // bcrypt ignores bytes past 72
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
			hasLetter = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func Rating(n int) bool { return n >= 1 && n <= 5 }

// Quantity rejects zero and negatives. Upper bounds are left to stock.
func Quantity(n int) bool { return n > 0 }

// Price accepts non-negative amounts with at most two decimal places.
func Price(d decimal.Decimal) bool {
	if d.IsNegative() {
		return false
	}
	return d.Equal(d.Round(PriceScale))
}

// ParsePrice parses a query-string amount such as "9.99".
func ParsePrice(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !Price(d) {
		return decimal.Zero, false
	}
	return d, true
}

// ImageURL allows an empty value or an absolute http(s) URL.
func ImageURL(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", true
	}
	if len(s) > 2048 {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return s, true
}

func Comment(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, len(s) <= MaxCommentLen
}

// Page parses a 1-based page number; anything unparsable is page 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Bool parses an optional tri-state flag. ok is false for unrecognized input.
func Bool(s string) (val *bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, true
	case "1", "true", "yes":
		t := true
		return &t, true
	case "0", "false", "no":
		f := false
		return &f, true
	}
	return nil, false
}
