// Package memory provides the process-lifetime user store.
//
// Records live only as long as the process; there is no persistence.
package memory

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/louisbranch/my-api/internal/services/users/domain"
)

// Store is a readers-writer guarded map of users keyed by id.
type Store struct {
	mu    sync.RWMutex
	users map[uuid.UUID]domain.User
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{users: make(map[uuid.UUID]domain.User)}
}

// Insert adds or replaces the record stored under user.ID.
func (s *Store) Insert(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
}

// Get returns a copy of the record for id.
func (s *Store) Get(id uuid.UUID) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	return user, ok
}

// List returns copies of every record ordered by name, then by id.
func (s *Store) List() []domain.User {
	s.mu.RLock()
	users := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	s.mu.RUnlock()

	slices.SortFunc(users, compareUsers)
	return users
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// compareUsers orders by raw name bytes; ids break ties so repeated
// listings of the same state are identical.
func compareUsers(a, b domain.User) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}
