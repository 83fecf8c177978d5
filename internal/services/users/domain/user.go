// Package domain holds the user record model and the request operations
// that validate input before touching the user store.
package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	apperrors "github.com/louisbranch/my-api/internal/platform/errors"
	"github.com/louisbranch/my-api/internal/platform/id"
)

const (
	msgNameEmailRequired = "name and email are required"
	msgInvalidID         = "invalid UUID"
	msgUserNotFound      = "user not found"
)

var (
	// ErrNameEmailRequired indicates a create request with a blank name or email.
	ErrNameEmailRequired = apperrors.BadRequest(msgNameEmailRequired)
	// ErrInvalidID indicates an identifier that does not parse.
	ErrInvalidID = apperrors.BadRequest(msgInvalidID)
	// ErrUserNotFound indicates no record exists for a well-formed identifier.
	ErrUserNotFound = apperrors.NotFound(msgUserNotFound)
	// ErrStoreNotConfigured indicates the service was built without a store.
	ErrStoreNotConfigured = errors.New("user store is not configured")
)

// User is one account record.
type User struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// CreateUserInput is the raw, unvalidated create payload.
type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks that name and email are non-empty once trimmed.
func (in CreateUserInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return ErrNameEmailRequired
	}
	return nil
}

// Store is the concurrency-safe user collection the service reads and writes.
type Store interface {
	Insert(user User)
	Get(id uuid.UUID) (User, bool)
	List() []User
}

// Service runs user operations against one injected store.
type Service struct {
	store Store
	newID func() (uuid.UUID, error)
}

// NewService builds a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store, newID: id.New}
}

// ListUsers returns every record ordered by name.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	users := s.store.List()
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// CreateUser validates input and stores a new record with a fresh id.
//
// Validation runs on trimmed values while the record keeps the submitted
// strings unchanged.
func (s *Service) CreateUser(ctx context.Context, input CreateUserInput) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	if err := input.Validate(); err != nil {
		return User{}, err
	}
	userID, err := s.newID()
	if err != nil {
		return User{}, apperrors.Internal("generate user id", err)
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	user := User{ID: userID, Name: input.Name, Email: input.Email}
	s.store.Insert(user)
	return user, nil
}

// GetUser parses idText and returns the matching record.
func (s *Service) GetUser(ctx context.Context, idText string) (User, error) {
	if err := s.ready(); err != nil {
		return User{}, err
	}
	userID, err := id.Parse(idText)
	if err != nil {
		return User{}, ErrInvalidID
	}
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	user, ok := s.store.Get(userID)
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return apperrors.Internal("user service", ErrStoreNotConfigured)
	}
	return nil
}
