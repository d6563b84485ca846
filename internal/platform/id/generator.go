package id

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator creates opaque ids for sessions, employees and stored objects.
type Generator interface {
	NewID() (string, error)
}

// UUIDGenerator issues time-ordered (v7) UUIDs that sort by creation.
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return v.String(), nil
}

// Static always returns the same id.
type Static string

func (s Static) NewID() (string, error) {
	return string(s), nil
}

// Sequence returns prefix-1, prefix-2, ... and is safe for concurrent use.
type Sequence struct {
	prefix string
	n      atomic.Int64
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

func (s *Sequence) NewID() (string, error) {
	return s.prefix + "-" + strconv.FormatInt(s.n.Add(1), 10), nil
}
