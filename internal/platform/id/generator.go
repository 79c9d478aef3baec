package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates opaque ids for change-feed messages and import batches.
type Generator interface {
	NewID() (string, error)
}

// TimeOrderedGenerator emits UUIDv7 values so ids sort by creation time.
type TimeOrderedGenerator struct{}

func NewTimeOrderedGenerator() TimeOrderedGenerator {
	return TimeOrderedGenerator{}
}

func (TimeOrderedGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid v7: %w", err)
	}
	return v.String(), nil
}
