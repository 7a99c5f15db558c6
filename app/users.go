// Package app is the demo application: a small user directory wired
// entirely through the container.
package app

import (
	"errors"
	"slices"
	"sync"
)

// ErrUserNotFound is returned for an unknown user ID.
var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepository stores users.
type UserRepository interface {
	All() []User
	Find(id int) (User, error)
	Save(u User) User
	Delete(id int) error
}

// MemoryUserRepository keeps users in memory. It must be shared, so bind it
// with Instance.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int]User
	nextID int
}

func NewMemoryUserRepository(seed ...User) *MemoryUserRepository {
	r := &MemoryUserRepository{users: make(map[int]User), nextID: 1}
	for _, u := range seed {
		r.Save(u)
	}
	return r
}

func (r *MemoryUserRepository) All() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b User) int { return a.ID - b.ID })
	return out
}

func (r *MemoryUserRepository) Find(id int) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// Save inserts u when its ID is zero and replaces the stored user otherwise.
func (r *MemoryUserRepository) Save(u User) User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		u.ID = r.nextID
	}
	r.nextID = max(r.nextID, u.ID+1)
	r.users[u.ID] = u
	return u
}

func (r *MemoryUserRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}
