// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package session

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. It is the default backend
// for single-instance deployments and for tests; a background janitor drops
// expired entries.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	ttl      time.Duration
	secure   bool
}

type memoryEntry struct {
	session   *Session
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store and starts its cleanup
// goroutine. secure controls the cookie's Secure flag.
func NewMemoryStore(ttl time.Duration, secure bool) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		ttl:      ttl,
		secure:   secure,
	}
	go s.janitor()
	return s
}

func (s *MemoryStore) Load(_ context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.sessions[cookie.Value]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, nil
	}
	return entry.session, nil
}

func (s *MemoryStore) Create(_ context.Context, w http.ResponseWriter) (*Session, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &Session{ID: id, CreatedAt: now, UpdatedAt: now}

	s.mu.Lock()
	s.sessions[id] = &memoryEntry{session: sess, expiresAt: now.Add(s.ttl)}
	s.mu.Unlock()

	http.SetCookie(w, newCookie(id, s.ttl, s.secure))
	return sess, nil
}

// Save refreshes the session's expiry. The stored *Session is shared with
// the caller, so mutations are already visible; only the TTL needs touching.
func (s *MemoryStore) Save(_ context.Context, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[sess.ID]
	if !ok {
		entry = &memoryEntry{session: sess}
		s.sessions[sess.ID] = entry
	}
	entry.expiresAt = time.Now().Add(s.ttl)
	return nil
}

// janitor periodically evicts expired sessions. Image payloads make entries
// heavy, so the sweep runs often enough to keep memory bounded.
func (s *MemoryStore) janitor() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for id, entry := range s.sessions {
			if now.After(entry.expiresAt) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
