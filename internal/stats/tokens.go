package stats

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// TokenStore is an in-process IdentityResolver. The real credential and
// session system lives outside the core; this store covers single-node
// deployments and tests with the same token semantics: opaque random
// tokens with a TTL, one active token per username.
type TokenStore struct {
	mu        sync.RWMutex
	tokens    map[string]*tokenRecord
	usernames map[string]string // username -> token, for replacement
	ttl       time.Duration
}

type tokenRecord struct {
	username string
	issuedAt time.Time
}

func NewTokenStore(ttl time.Duration) *TokenStore {
	s := &TokenStore{
		tokens:    make(map[string]*tokenRecord),
		usernames: make(map[string]string),
		ttl:       ttl,
	}
	go s.cleanupLoop()
	return s
}

// Issue creates a fresh token for username, replacing any previous one.
func (s *TokenStore) Issue(username string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.usernames[username]; ok {
		delete(s.tokens, old)
	}

	buf := make([]byte, 32)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	s.tokens[token] = &tokenRecord{username: username, issuedAt: time.Now()}
	s.usernames[username] = token
	return token
}

// Resolve implements IdentityResolver.
func (s *TokenStore) Resolve(token string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.tokens[token]
	if !ok || time.Since(rec.issuedAt) > s.ttl {
		return "", false
	}
	return rec.username, true
}

// Revoke drops a token, e.g. on logout.
func (s *TokenStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.tokens[token]; ok {
		delete(s.usernames, rec.username)
		delete(s.tokens, token)
	}
}

func (s *TokenStore) cleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for token, rec := range s.tokens {
			if time.Since(rec.issuedAt) > s.ttl {
				delete(s.usernames, rec.username)
				delete(s.tokens, token)
			}
		}
		s.mu.Unlock()
	}
}
