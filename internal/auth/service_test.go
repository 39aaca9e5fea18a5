package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func steppingClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Minute)
	}
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name      string
		input     RegisterInput
		setup     func(*Service)
		wantErr   error
		wantUsers int
	}{
		{
			name: "successful registration",
			input: RegisterInput{
				UserName:  "alice",
				Email:     "alice@example.com",
				Password:  "pw1",
				Password2: "pw1",
			},
			wantUsers: 1,
		},
		{
			name: "password mismatch",
			input: RegisterInput{
				UserName:  "alice",
				Password:  "pw1",
				Password2: "pw2",
			},
			wantErr:   ErrPasswordMismatch,
			wantUsers: 0,
		},
		{
			name: "missing password",
			input: RegisterInput{
				UserName: "alice",
			},
			wantErr:   ErrPasswordRequired,
			wantUsers: 0,
		},
		{
			name: "missing user name",
			input: RegisterInput{
				Password:  "pw1",
				Password2: "pw1",
			},
			wantErr:   ErrUserNameRequired,
			wantUsers: 0,
		},
		{
			name: "password too long",
			input: RegisterInput{
				UserName:  "alice",
				Password:  strings.Repeat("p", MaxPasswordLength+1),
				Password2: strings.Repeat("p", MaxPasswordLength+1),
			},
			wantErr:   ErrPasswordTooLong,
			wantUsers: 0,
		},
		{
			name: "password at bcrypt limit",
			input: RegisterInput{
				UserName:  "alice",
				Password:  strings.Repeat("p", MaxPasswordLength),
				Password2: strings.Repeat("p", MaxPasswordLength),
			},
			wantUsers: 1,
		},
		{
			name: "duplicate user name",
			input: RegisterInput{
				UserName:  "existing",
				Email:     "other@example.com",
				Password:  "pw2",
				Password2: "pw2",
			},
			setup: func(s *Service) {
				_ = s.Register(context.Background(), RegisterInput{
					UserName:  "existing",
					Email:     "first@example.com",
					Password:  "pw1",
					Password2: "pw1",
				})
			},
			wantErr:   ErrUserExists,
			wantUsers: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			err := svc.Register(context.Background(), tt.input)
			assert.Equal(t, tt.wantUsers, repo.count())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			user, err := repo.GetUserByUsername(context.Background(), tt.input.UserName)
			require.NoError(t, err)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.NotEqual(t, tt.input.Password, user.Password)
			assert.Empty(t, user.LoginHistory)

			match, err := svc.hasher.Compare(tt.input.Password, user.Password)
			require.NoError(t, err)
			assert.True(t, match)
		})
	}
}

func TestService_Register_DuplicateKeepsFirstUser(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterInput{
		UserName: "alice", Email: "first@example.com", Password: "pw1", Password2: "pw1",
	}))
	before, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)

	err = svc.Register(ctx, RegisterInput{
		UserName: "alice", Email: "second@example.com", Password: "pw2", Password2: "pw2",
	})
	require.ErrorIs(t, err, ErrUserExists)

	after, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestService_Register_StoreError(t *testing.T) {
	svc, repo := newTestService(t)
	repo.createErr = errors.New("connection reset")

	err := svc.Register(context.Background(), RegisterInput{
		UserName: "alice", Password: "pw1", Password2: "pw1",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserExists)
	assert.Equal(t, "error creating the user: connection reset", err.Error())
}

func TestService_Verify(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterInput{
		UserName: "alice", Email: "alice@example.com", Password: "pw1", Password2: "pw1",
	}))

	tests := []struct {
		name        string
		creds       Credentials
		wantErr     error
		wantMessage string
		wantHistory int
	}{
		{
			name:        "unknown user",
			creds:       Credentials{UserName: "ghost", Password: "pw1", UserAgent: "UA1"},
			wantErr:     ErrUserNotFound,
			wantMessage: "unable to find user: ghost",
			wantHistory: 0,
		},
		{
			name:        "wrong password",
			creds:       Credentials{UserName: "alice", Password: "wrong", UserAgent: "UA1"},
			wantErr:     ErrInvalidPassword,
			wantMessage: "incorrect password for user: alice",
			wantHistory: 0,
		},
		{
			name:        "valid credentials",
			creds:       Credentials{UserName: "alice", Password: "pw1", UserAgent: "UA1"},
			wantHistory: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Verify(ctx, tt.creds)

			stored, getErr := repo.GetUserByUsername(ctx, "alice")
			require.NoError(t, getErr)
			assert.Len(t, stored.LoginHistory, tt.wantHistory)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.EqualError(t, err, tt.wantMessage)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "alice", user.UserName)
			assert.Equal(t, "alice@example.com", user.Email)
			require.Len(t, user.LoginHistory, 1)
			assert.Equal(t, "UA1", user.LoginHistory[0].UserAgent)
		})
	}
}

func TestService_Verify_HistoryCappedNewestFirst(t *testing.T) {
	svc, repo := newTestService(t)
	svc.now = steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterInput{
		UserName: "bob", Password: "pw", Password2: "pw",
	}))

	var last *User
	for i := 1; i <= MaxLoginHistory+1; i++ {
		user, err := svc.Verify(ctx, Credentials{
			UserName:  "bob",
			Password:  "pw",
			UserAgent: fmt.Sprintf("UA%d", i),
		})
		require.NoError(t, err)
		last = user
	}

	stored, err := repo.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)

	for _, history := range [][]LoginEntry{last.LoginHistory, stored.LoginHistory} {
		require.Len(t, history, MaxLoginHistory)
		assert.Equal(t, "UA9", history[0].UserAgent)
		assert.Equal(t, "UA2", history[MaxLoginHistory-1].UserAgent)
		for i := 1; i < len(history); i++ {
			assert.True(t, history[i-1].DateTime.After(history[i].DateTime),
				"entry %d should be newer than entry %d", i-1, i)
		}
		for _, entry := range history {
			assert.NotEqual(t, "UA1", entry.UserAgent)
		}
	}
}

func TestService_Verify_HistoryUpdateFailure(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterInput{
		UserName: "alice", Password: "pw1", Password2: "pw1",
	}))
	repo.updateErr = errors.New("write concern timeout")

	user, err := svc.Verify(ctx, Credentials{UserName: "alice", Password: "pw1", UserAgent: "UA1"})
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrHistoryUpdate)
	assert.NotErrorIs(t, err, ErrInvalidPassword)
	assert.Contains(t, err.Error(), "write concern timeout")
}

func TestService_RegisterThenLogin(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, RegisterInput{
		UserName: "alice", Password: "pw1", Password2: "pw1",
	}))

	user, err := svc.Verify(ctx, Credentials{UserName: "alice", Password: "pw1", UserAgent: "UA1"})
	require.NoError(t, err)
	require.Len(t, user.LoginHistory, 1)
	assert.Equal(t, "UA1", user.LoginHistory[0].UserAgent)

	_, err = svc.Verify(ctx, Credentials{UserName: "alice", Password: "wrong", UserAgent: "UA2"})
	require.ErrorIs(t, err, ErrInvalidPassword)

	stored, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, stored.LoginHistory, 1)
	assert.Equal(t, "UA1", stored.LoginHistory[0].UserAgent)
}

func TestPrependLogin(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	full := make([]LoginEntry, MaxLoginHistory)
	for i := range full {
		full[i] = LoginEntry{DateTime: base.Add(-time.Duration(i) * time.Hour), UserAgent: fmt.Sprintf("old-%d", i)}
	}
	original := append([]LoginEntry(nil), full...)

	got := prependLogin(full, LoginEntry{DateTime: base.Add(time.Hour), UserAgent: "new"})

	require.Len(t, got, MaxLoginHistory)
	assert.Equal(t, "new", got[0].UserAgent)
	assert.Equal(t, "old-6", got[MaxLoginHistory-1].UserAgent)
	assert.Equal(t, original, full)

	assert.Len(t, prependLogin(nil, LoginEntry{UserAgent: "first"}), 1)
}

func TestService_Verify_TruncatesUserAgent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, RegisterInput{
		UserName: "alice", Password: "pw1", Password2: "pw1",
	}))

	ua := strings.Repeat("Mozilla/5.0 (X11; Linux x86_64) ", 20)
	user, err := svc.Verify(ctx, Credentials{UserName: "alice", Password: "pw1", UserAgent: ua})
	require.NoError(t, err)

	stored, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	for _, history := range [][]LoginEntry{user.LoginHistory, stored.LoginHistory} {
		require.Len(t, history, 1)
		assert.Equal(t, ua[:MaxUserAgentLength], history[0].UserAgent)
	}
}

func TestTruncateUserAgent(t *testing.T) {
	short := "Mozilla/5.0"
	assert.Equal(t, short, truncateUserAgent(short))

	exact := strings.Repeat("a", MaxUserAgentLength)
	assert.Equal(t, exact, truncateUserAgent(exact))

	// "é" is two bytes, so byte MaxUserAgentLength falls inside a rune.
	multi := "a" + strings.Repeat("é", MaxUserAgentLength)
	got := truncateUserAgent(multi)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxUserAgentLength-1, len(got))
	assert.True(t, strings.HasPrefix(multi, got))
}
