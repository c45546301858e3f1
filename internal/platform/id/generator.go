package id

import "sync/atomic"

// Generator hands out match ids.
type Generator interface {
	Next() int64
}

// Sequence is a monotonic counter. Each schedule build owns its own
// sequence, so ids never leak between runs.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a sequence whose first id is start.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start - 1)
	return s
}

func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

// Last returns the most recently issued id, or start-1 when none was issued.
func (s *Sequence) Last() int64 {
	return s.last.Load()
}
