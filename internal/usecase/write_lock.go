package usecase

import (
	"context"
	"sync"
)

// WriteLock serializes load-mutate-save cycles on the season snapshot. Every
// service that writes must share the same instance.
type WriteLock struct {
	mu sync.Mutex
}

func NewWriteLock() *WriteLock {
	return &WriteLock{}
}

func (l *WriteLock) Do(fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn()
}

// ChangeNotifier is told after a write has been saved.
type ChangeNotifier interface {
	Invalidate(ctx context.Context)
}

type noopNotifier struct{}

func (noopNotifier) Invalidate(context.Context) {}
