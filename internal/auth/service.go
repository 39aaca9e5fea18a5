package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repository Repository
	hasher     PasswordHasher
	now        func() time.Time
}

func NewService(log *zap.Logger, repo Repository, hasher PasswordHasher) *Service {
	return &Service{
		log:        log,
		repository: repo,
		hasher:     hasher,
		now:        time.Now,
	}
}

// Register stores a new user with a hashed password. Nothing is persisted
// when the confirmation does not match.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	if in.UserName == "" {
		return ErrUserNameRequired
	}
	if in.Password == "" {
		return ErrPasswordRequired
	}
	if in.Password != in.Password2 {
		return ErrPasswordMismatch
	}
	if len(in.Password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error("failed to hash password", zap.Error(err))
		return errors.New("there was an error encrypting the password")
	}

	user := &User{
		UserName:     in.UserName,
		Password:     hashed,
		Email:        in.Email,
		LoginHistory: []LoginEntry{},
	}

	if err := s.repository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			return ErrUserExists
		}
		s.log.Error("failed to create user", zap.String("username", in.UserName), zap.Error(err))
		return fmt.Errorf("error creating the user: %w", err)
	}

	s.log.Info("user registered", zap.String("username", in.UserName))
	return nil
}

// Verify checks the credentials and records the login. A failure to persist
// the history is returned as ErrHistoryUpdate even though the password was
// correct.
func (s *Service) Verify(ctx context.Context, creds Credentials) (*User, error) {
	user, err := s.repository.GetUserByUsername(ctx, creds.UserName)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, creds.UserName)
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", creds.UserName, err)
	}

	match, err := s.hasher.Compare(creds.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("error during password comparison: %w", err)
	}
	if !match {
		return nil, fmt.Errorf("%w for user: %s", ErrInvalidPassword, creds.UserName)
	}

	history := prependLogin(user.LoginHistory, LoginEntry{
		DateTime:  s.now().UTC(),
		UserAgent: truncateUserAgent(creds.UserAgent),
	})

	if err := s.repository.UpdateLoginHistory(ctx, user.UserName, history); err != nil {
		s.log.Error("failed to update login history",
			zap.String("username", user.UserName),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrHistoryUpdate, err)
	}

	verified := *user
	verified.LoginHistory = history
	return &verified, nil
}
