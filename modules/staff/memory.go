package staff

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motorlane/shopcore/pkg/scoped"
)

// MemoryStorage keeps staff rows in process memory. It honors the same
// tenant-scoping contract as the PostgreSQL store and backs tests and local
// development.
type MemoryStorage struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*Staff
}

// NewMemoryStorage creates an empty in-memory staff store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{rows: make(map[uuid.UUID]*Staff)}
}

func (m *MemoryStorage) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.rows[id]
	if !ok || !scoped.Owns(ctx, s.TenantID) {
		return nil, ErrStaffNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStorage) GetByUserID(ctx context.Context, userID uuid.UUID) (*Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.rows {
		if s.UserID == userID && scoped.Owns(ctx, s.TenantID) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrStaffNotFound
}

func (m *MemoryStorage) Create(ctx context.Context, s *Staff) error {
	tenantID, err := scoped.Pin(ctx, s.TenantID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.TenantID = tenantID
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now

	cp := *s
	m.rows[s.ID] = &cp
	return nil
}
