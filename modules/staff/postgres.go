package staff

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorlane/shopcore/pkg/pg"
	"github.com/motorlane/shopcore/pkg/scoped"
)

// PostgresStorage persists staff rows in PostgreSQL. Every query carries the
// ambient tenant predicate so a staff id from another tenant never matches.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a staff store over the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const staffColumns = `id, tenant_id, user_id, email, name, role, status, created_at, updated_at`

func (p *PostgresStorage) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, ErrStaffNotFound
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	return scanStaff(row)
}

func (p *PostgresStorage) GetByUserID(ctx context.Context, userID uuid.UUID) (*Staff, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, ErrStaffNotFound
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE user_id = $1 AND tenant_id = $2`,
		userID, tenantID)
	return scanStaff(row)
}

func (p *PostgresStorage) Create(ctx context.Context, s *Staff) error {
	tenantID, err := scoped.Pin(ctx, s.TenantID)
	if err != nil {
		return err
	}

	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.TenantID = tenantID

	row := p.pool.QueryRow(ctx,
		`INSERT INTO staff (id, tenant_id, user_id, email, name, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		s.ID, s.TenantID, s.UserID, s.Email, s.Name, s.Role, s.Status)
	return row.Scan(&s.CreatedAt, &s.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row rowScanner) (*Staff, error) {
	var s Staff
	err := row.Scan(&s.ID, &s.TenantID, &s.UserID, &s.Email, &s.Name, &s.Role, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &s, nil
}
