package lock

import (
	"context"
	"sync"

	"payment_relay/internal/usecase/interfaces"
)

// MemoryLocker is a process-local, non-blocking keyed lock. It is used when
// REDIS_ADDR is empty, which is only correct for a single relay instance.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

var _ interfaces.IVerificationLocker = (*MemoryLocker)(nil)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, interfaces.ErrLockHeld
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
