package auth

import (
	"context"
	"sync"
)

type mockRepository struct {
	users map[string]*User
	mu    sync.RWMutex

	createErr error
	updateErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users: make(map[string]*User),
	}
}

func cloneUser(u *User) *User {
	clone := *u
	clone.LoginHistory = append([]LoginEntry(nil), u.LoginHistory...)
	return &clone
}

func (r *mockRepository) CreateUser(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.users[user.UserName]; exists {
		return ErrUserExists
	}

	r.users[user.UserName] = cloneUser(user)
	return nil
}

func (r *mockRepository) GetUserByUsername(_ context.Context, username string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *mockRepository) UpdateLoginHistory(_ context.Context, username string, history []LoginEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	user, exists := r.users[username]
	if !exists {
		return nil
	}
	user.LoginHistory = append([]LoginEntry(nil), history...)
	return nil
}

func (r *mockRepository) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
