// Package ident provides the identifier capability injected wherever new
// criteria, fields or alternatives need ids, so tests can supply a
// deterministic generator instead of patching randomness.
package ident

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces unique identifiers.
type Generator interface {
	NewID() string
}

// UUID is the production generator, backed by random UUIDs.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// Sequence is a deterministic generator for tests: prefix-1, prefix-2, ...
type Sequence struct {
	Prefix string
	n      atomic.Int64
}

func (s *Sequence) NewID() string {
	return fmt.Sprintf("%s-%d", s.Prefix, s.n.Add(1))
}
