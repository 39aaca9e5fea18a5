package auth

import (
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// MaxLoginHistory caps the number of remembered logins per user.
	MaxLoginHistory = 8

	// MaxUserAgentLength bounds each history entry so a full history still
	// fits in the session cookie.
	MaxUserAgentLength = 256

	// MaxPasswordLength is the longest input bcrypt accepts.
	MaxPasswordLength = 72
)

type LoginEntry struct {
	DateTime  time.Time `bson:"dateTime" json:"dateTime"`
	UserAgent string    `bson:"userAgent" json:"userAgent"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserName     string             `bson:"userName"`
	Password     string             `bson:"password"`
	Email        string             `bson:"email"`
	LoginHistory []LoginEntry       `bson:"loginHistory"`
}

// RegisterInput is the registration form.
type RegisterInput struct {
	UserName  string `form:"userName"`
	Email     string `form:"email"`
	Password  string `form:"password"`
	Password2 string `form:"password2"`
}

// Credentials is the login form plus the caller's user agent.
type Credentials struct {
	UserName  string `form:"userName"`
	Password  string `form:"password"`
	UserAgent string `form:"-"`
}

// prependLogin returns a new history with entry first, trimmed to
// MaxLoginHistory. The input slice is never modified.
func prependLogin(history []LoginEntry, entry LoginEntry) []LoginEntry {
	n := len(history)
	if n >= MaxLoginHistory {
		n = MaxLoginHistory - 1
	}

	out := make([]LoginEntry, 0, n+1)
	out = append(out, entry)
	return append(out, history[:n]...)
}

// truncateUserAgent cuts ua to at most MaxUserAgentLength bytes without
// splitting a multi-byte rune.
func truncateUserAgent(ua string) string {
	if len(ua) <= MaxUserAgentLength {
		return ua
	}
	cut := MaxUserAgentLength
	for cut > 0 && !utf8.RuneStart(ua[cut]) {
		cut--
	}
	return ua[:cut]
}
