package store

import (
	"sync"
	"time"

	"iftargather/internal/domain"
)

// sessionTTL is how long a verification result is reused before the
// underlying verifier is consulted again.
const sessionTTL = 2000 * time.Millisecond

type sessionEntry struct {
	userID    string
	err       error
	checkedAt time.Time
}

// SessionCache wraps a TokenVerifier and reuses each token's verification
// result for a short window, so a burst of requests carrying the same
// token costs one verification instead of one per request. Failures are
// cached the same way as successes.
type SessionCache struct {
	verifier domain.TokenVerifier
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]sessionEntry
}

// NewSessionCache wraps verifier with the default 2s window.
func NewSessionCache(verifier domain.TokenVerifier) *SessionCache {
	return &SessionCache{
		verifier: verifier,
		now:      time.Now,
		entries:  make(map[string]sessionEntry),
	}
}

// Verify implements domain.TokenVerifier.
func (c *SessionCache) Verify(token string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if entry, ok := c.entries[token]; ok && now.Sub(entry.checkedAt) < sessionTTL {
		return entry.userID, entry.err
	}

	userID, err := c.verifier.Verify(token)
	c.entries[token] = sessionEntry{userID: userID, err: err, checkedAt: now}
	return userID, err
}

// Invalidate drops the cached entry for a token, forcing the next Verify
// through to the underlying verifier.
func (c *SessionCache) Invalidate(token string) {
	c.mu.Lock()
	delete(c.entries, token)
	c.mu.Unlock()
}
