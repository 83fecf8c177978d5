// Package id generates and parses the opaque record identifiers exposed by the API.
package id

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalid reports text that is not a recognised UUID encoding.
var ErrInvalid = errors.New("invalid UUID")

// New returns a random (version 4) identifier.
func New() (uuid.UUID, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("generate id: %w", err)
	}
	return value, nil
}

// Parse decodes text into an identifier.
//
// The canonical hyphenated form is what the API emits; braced, urn and
// undashed hex forms are accepted on input as well.
func Parse(text string) (uuid.UUID, error) {
	value, err := uuid.Parse(text)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return value, nil
}
