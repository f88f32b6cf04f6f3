package id

import "github.com/google/uuid"

// Generator produces public entity identifiers.
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

func NewUUIDGenerator() Generator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

// Static always returns the same id. Test helper.
type Static string

func (s Static) NewID() string {
	return string(s)
}

// Sequence hands out the provided ids in order, then falls back to UUIDs.
type Sequence struct {
	IDs  []string
	next int
}

func (s *Sequence) NewID() string {
	if s.next < len(s.IDs) {
		id := s.IDs[s.next]
		s.next++
		return id
	}
	return uuid.NewString()
}
