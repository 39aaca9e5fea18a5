package auth

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SessionContextKey is where the loaded Session is stored on the echo context.
const SessionContextKey = "session"

// LoadSession attaches the caller's session, if any, to the request context
// and renews it when it is about to lapse. It never rejects a request.
func (m *SessionManager) LoadSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(m.config.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			s, err := m.load(c.Request().Context(), cookie.Value)
			if errors.Is(err, errRevocationUnavailable) {
				m.log.Warn("unable to check session revocation",
					zap.String("path", c.Request().URL.Path),
					zap.Error(err))
				return next(c)
			}
			if err != nil {
				if !errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, ErrSessionRevoked) {
					m.log.Warn("discarding session cookie",
						zap.String("path", c.Request().URL.Path),
						zap.Error(err))
				}
				m.clearCookie(c)
				return next(c)
			}

			if renewed, ok := m.renew(s); ok {
				if err := m.writeCookie(c, renewed); err != nil {
					m.log.Error("failed to renew session", zap.String("username", s.UserName), zap.Error(err))
				} else {
					s = renewed
				}
			}

			c.Set(SessionContextKey, s)
			return next(c)
		}
	}
}

// RequireSession redirects to loginPath when the matched route is protected
// and no session was loaded.
func RequireSession(protected map[string]bool, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !protected[c.Path()] {
				return next(c)
			}
			if _, ok := SessionFromContext(c); !ok {
				return c.Redirect(http.StatusFound, loginPath)
			}
			return next(c)
		}
	}
}

// SessionFromContext returns the session loaded for this request.
func SessionFromContext(c echo.Context) (Session, bool) {
	s, ok := c.Get(SessionContextKey).(Session)
	return s, ok
}
