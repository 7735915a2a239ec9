package repo

import (
	"context"
	"errors"

	dom "github.com/p-udaykiran/noteapp/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepo provides user lookup for sign-in.
type UserRepo interface {
	GetByUsername(ctx context.Context, username string) (dom.User, error)
}

// StaticUserRepo serves the accounts declared in configuration.
type StaticUserRepo struct {
	users map[string]dom.User
}

// NewStaticUserRepo returns a new StaticUserRepo.
func NewStaticUserRepo(users ...dom.User) *StaticUserRepo {
	m := make(map[string]dom.User, len(users))
	for _, u := range users {
		m[u.Username] = u
	}
	return &StaticUserRepo{users: m}
}

// GetByUsername returns the user by username.
func (r *StaticUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	u, ok := r.users[username]
	if !ok {
		return dom.User{}, ErrUserNotFound
	}
	return u, nil
}
