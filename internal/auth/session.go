package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/elskow/legoset/internal/config"
)

var (
	ErrSessionRevoked = errors.New("session has been revoked")

	// errRevocationUnavailable marks a session that could not be checked
	// against the revocation store. The cookie itself may still be good.
	errRevocationUnavailable = errors.New("revocation store unavailable")
)

// Session is the identity snapshot carried by the session cookie. Values are
// never mutated; login and renewal produce new ones.
type Session struct {
	ID           string
	UserName     string
	Email        string
	LoginHistory []LoginEntry
	ExpiresAt    time.Time
}

type sessionClaims struct {
	UserName     string       `json:"userName"`
	Email        string       `json:"email"`
	LoginHistory []LoginEntry `json:"loginHistory"`
	jwt.RegisteredClaims
}

type SessionManager struct {
	config  *config.SessionConfig
	key     []byte
	revoker Revoker
	log     *zap.Logger
	now     func() time.Time
}

func NewSessionManager(cfg *config.SessionConfig, revoker Revoker, log *zap.Logger) (*SessionManager, error) {
	if cfg.Secret == "" {
		return nil, errors.New("session secret is empty")
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}

	return &SessionManager{
		config:  cfg,
		key:     []byte(cfg.Secret),
		revoker: revoker,
		log:     log,
		now:     time.Now,
	}, nil
}

func (m *SessionManager) encode(s Session) (string, error) {
	claims := &sessionClaims{
		UserName:     s.UserName,
		Email:        s.Email,
		LoginHistory: s.LoginHistory,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.UserName,
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(m.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.key)
}

func (m *SessionManager) decode(tokenString string) (Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return m.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Session{}, err
	}
	if !token.Valid || claims.ID == "" {
		return Session{}, errors.New("invalid session token")
	}

	return Session{
		ID:           claims.ID,
		UserName:     claims.UserName,
		Email:        claims.Email,
		LoginHistory: claims.LoginHistory,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

// load decodes a cookie value and rejects sessions that were logged out.
func (m *SessionManager) load(ctx context.Context, tokenString string) (Session, error) {
	s, err := m.decode(tokenString)
	if err != nil {
		return Session{}, err
	}

	revoked, err := m.revoker.IsRevoked(ctx, s.ID)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", errRevocationUnavailable, err)
	}
	if revoked {
		return Session{}, ErrSessionRevoked
	}
	return s, nil
}

// renew extends a session whose remaining lifetime dropped below the active
// window. The session id is kept so a later logout covers every renewal.
func (m *SessionManager) renew(s Session) (Session, bool) {
	if m.config.ActiveDuration <= 0 {
		return s, false
	}
	now := m.now()
	if s.ExpiresAt.Sub(now) >= m.config.ActiveDuration {
		return s, false
	}

	renewed := s
	renewed.ExpiresAt = now.Add(m.config.ActiveDuration)
	return renewed, true
}

// Start issues a fresh session for a verified user and writes the cookie.
func (m *SessionManager) Start(c echo.Context, user *User) (Session, error) {
	history := make([]LoginEntry, len(user.LoginHistory))
	for i, entry := range user.LoginHistory {
		entry.UserAgent = truncateUserAgent(entry.UserAgent)
		history[i] = entry
	}

	s := Session{
		ID:           uuid.NewString(),
		UserName:     user.UserName,
		Email:        user.Email,
		LoginHistory: history,
		ExpiresAt:    m.now().Add(m.config.Duration),
	}

	if err := m.writeCookie(c, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// End revokes the current session, if any, and clears the cookie.
func (m *SessionManager) End(c echo.Context) error {
	defer m.clearCookie(c)

	s, ok := SessionFromContext(c)
	if !ok {
		return nil
	}

	ttl := m.config.Duration
	if m.config.ActiveDuration > ttl {
		ttl = m.config.ActiveDuration
	}
	if err := m.revoker.Revoke(c.Request().Context(), s.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

func (m *SessionManager) writeCookie(c echo.Context, s Session) error {
	value, err := m.encode(s)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     m.config.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *SessionManager) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
