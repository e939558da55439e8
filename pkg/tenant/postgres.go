package tenant

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorlane/shopcore/pkg/pg"
)

// PostgresProvider loads tenant records from PostgreSQL.
type PostgresProvider struct {
	pool *pgxpool.Pool
}

// NewPostgresProvider creates a provider over the given pool.
func NewPostgresProvider(pool *pgxpool.Pool) *PostgresProvider {
	return &PostgresProvider{pool: pool}
}

const tenantColumns = `id, slug, name, status, plan, max_staff, max_customers, max_vehicles, created_at`

func (p *PostgresProvider) GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
	return scanTenant(row)
}

func (p *PostgresProvider) GetBySlug(ctx context.Context, slug string) (*Tenant, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug)
	return scanTenant(row)
}

func scanTenant(row interface{ Scan(dest ...any) error }) (*Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Status, &t.Plan,
		&t.Limits.MaxStaff, &t.Limits.MaxCustomers, &t.Limits.MaxVehicles, &t.CreatedAt)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &t, nil
}
