package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRefreshStorage keeps refresh tokens in memory with the same
// compare-and-swap revocation semantics as the PostgreSQL store.
type MemoryRefreshStorage struct {
	mu     sync.Mutex
	byHash map[string]*RefreshToken
}

func NewMemoryRefreshStorage() *MemoryRefreshStorage {
	return &MemoryRefreshStorage{byHash: make(map[string]*RefreshToken)}
}

func (m *MemoryRefreshStorage) Create(_ context.Context, t *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	cp := *t
	m.byHash[t.Token] = &cp
	return nil
}

func (m *MemoryRefreshStorage) GetByTokenHash(_ context.Context, hash string) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byHash[hash]
	if !ok {
		return nil, ErrTokenNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryRefreshStorage) Revoke(_ context.Context, params RevokeParams) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byHash[params.TokenHash]
	if !ok {
		return false, ErrTokenNotFound
	}
	// Check-then-act under the lock mirrors the SQL store's conditional
	// UPDATE: of two concurrent rotation attempts exactly one wins.
	if t.IsRevoked {
		return false, nil
	}

	now := time.Now()
	t.IsRevoked = true
	t.RevokedAt = &now
	t.RevocationReason = params.Reason
	t.RevokedByIP = params.RevokedByIP
	t.ReplacedByToken = params.ReplacedByToken
	return true, nil
}

func (m *MemoryRefreshStorage) DeleteExpired(_ context.Context, userID uuid.UUID, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for hash, t := range m.byHash {
		if t.UserID == userID && now.After(t.ExpiresAt) {
			delete(m.byHash, hash)
		}
	}
	return nil
}
