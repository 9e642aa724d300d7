package services

import "sync"

// keyLock serializes read-modify-write sequences that share a key (a cart
// owner, a payment intent). The map grows with distinct keys; at this scale
// that is bounded by users plus in-flight intents.
type keyLock struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{m: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its release func.
func (l *keyLock) Lock(key string) func() {
	l.mu.Lock()
	mu, ok := l.m[key]
	if !ok {
		mu = &sync.Mutex{}
		l.m[key] = mu
	}
	l.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}
