package auth

import (
	"io"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/elskow/legoset/internal/config"
)

func newTestLogger(t *testing.T) *zap.Logger {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	return logger
}

func newTestHasher() PasswordHasher {
	return NewHasher(&config.AuthConfig{
		Hasher:     HasherBcrypt,
		BcryptCost: bcrypt.MinCost,
	})
}

func newTestService(t *testing.T) (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(newTestLogger(t), repo, newTestHasher()), repo
}

func newTestSessionConfig() *config.SessionConfig {
	return &config.SessionConfig{
		CookieName:     "session",
		Secret:         "test-session-secret",
		Duration:       2 * time.Minute,
		ActiveDuration: time.Minute,
	}
}

func newTestSessionManager(t *testing.T) *SessionManager {
	m, err := NewSessionManager(newTestSessionConfig(), NewRevoker(nil), newTestLogger(t))
	assert.NoError(t, err)
	return m
}

// recordingRenderer captures the last rendered view instead of executing
// templates.
type recordingRenderer struct {
	name string
	data echo.Map
}

func (r *recordingRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	r.name = name
	r.data, _ = data.(echo.Map)
	_, err := io.WriteString(w, name)
	return err
}
