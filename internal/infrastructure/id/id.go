package id

import "github.com/google/uuid"

// Generator hands out opaque identifiers for new aggregates.
type Generator interface {
	NewID() string
}

// UUIDGenerator produces random (v4) UUID strings.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string { return uuid.NewString() }
