package lock

import (
	"context"
	"sync"
)

// LocalLocker serializes holders of the same key within one process.
type LocalLocker struct {
	mu   sync.Mutex
	keys map[string]*localEntry
}

type localEntry struct {
	slot chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{keys: make(map[string]*localEntry)}
}

func (l *LocalLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	l.mu.Lock()
	e, ok := l.keys[key]
	if !ok {
		e = &localEntry{slot: make(chan struct{}, 1)}
		l.keys[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.slot <- struct{}{}:
		return &localLock{locker: l, key: key, entry: e}, nil
	case <-ctx.Done():
		l.drop(key, e, false)
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) drop(key string, e *localEntry, held bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if held {
		<-e.slot
	}
	e.refs--
	if e.refs == 0 {
		delete(l.keys, key)
	}
}

type localLock struct {
	locker *LocalLocker
	key    string
	entry  *localEntry
	once   sync.Once
}

func (h *localLock) Release(_ context.Context) error {
	h.once.Do(func() {
		h.locker.drop(h.key, h.entry, true)
	})
	return nil
}
