package session

import (
	"context"
	"sync"
	"time"
)

const maxUserAgentLen = 200

// MemoryRegistry keeps sessions in a process-local map. Guarded by a mutex:
// concurrent login/refresh calls for the same account must not tear the
// read-modify-write of the entry.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryRegistry creates an empty in-process registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]*Session),
	}
}

func (r *MemoryRegistry) Put(_ context.Context, accountID, token string, expiresAt time.Time, meta ClientMeta) error {
	ua := meta.UserAgent
	if len(ua) > maxUserAgentLen {
		ua = ua[:maxUserAgentLen]
	}
	if ua == "" {
		ua = "unknown"
	}
	ip := meta.IPAddress
	if ip == "" {
		ip = "unknown"
	}

	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[accountID] = &Session{
		AccountID:  accountID,
		Token:      token,
		ExpiresAt:  expiresAt,
		LastActive: now,
		CreatedAt:  now,
		UserAgent:  ua,
		IPAddress:  ip,
		IsValid:    true,
	}
	return nil
}

func (r *MemoryRegistry) IsValid(_ context.Context, accountID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[accountID]
	if !ok {
		return false
	}

	if time.Now().After(s.ExpiresAt) || !s.IsValid {
		delete(r.sessions, accountID)
		return false
	}

	return true
}

func (r *MemoryRegistry) Touch(_ context.Context, accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[accountID]; ok {
		s.LastActive = time.Now()
	}
}

func (r *MemoryRegistry) Remove(_ context.Context, accountID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.sessions[accountID]
	delete(r.sessions, accountID)
	return ok
}

func (r *MemoryRegistry) InvalidateAll(ctx context.Context, accountID string) bool {
	return r.Remove(ctx, accountID)
}

func (r *MemoryRegistry) ListForAccount(_ context.Context, accountID string) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[accountID]
	if !ok {
		return nil
	}
	return []Session{*s}
}

func (r *MemoryRegistry) ListAll(_ context.Context) []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out
}

// Sweep evicts entries past their token expiry, independent of
// lookup-triggered eviction. Bounds memory growth from abandoned sessions.
func (r *MemoryRegistry) Sweep(_ context.Context) int {
	now := time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for id, s := range r.sessions {
		if now.After(s.ExpiresAt) {
			delete(r.sessions, id)
			count++
		}
	}
	return count
}
