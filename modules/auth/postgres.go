package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorlane/shopcore/pkg/pg"
)

// PostgresRefreshStorage persists refresh token rows in PostgreSQL. The
// conditional UPDATE in Revoke is the database-level compare-and-swap that
// makes concurrent rotation single-winner.
type PostgresRefreshStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresRefreshStorage(pool *pgxpool.Pool) *PostgresRefreshStorage {
	return &PostgresRefreshStorage{pool: pool}
}

func (p *PostgresRefreshStorage) Create(ctx context.Context, t *RefreshToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	return p.pool.QueryRow(ctx,
		`INSERT INTO refresh_tokens (id, token_hash, user_id, expires_at, created_by_ip)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		t.ID, t.Token, t.UserID, t.ExpiresAt, t.CreatedByIP).Scan(&t.CreatedAt)
}

func (p *PostgresRefreshStorage) GetByTokenHash(ctx context.Context, hash string) (*RefreshToken, error) {
	var t RefreshToken
	err := p.pool.QueryRow(ctx,
		`SELECT id, token_hash, user_id, created_at, expires_at, is_revoked,
		        revoked_at, COALESCE(revocation_reason, ''), COALESCE(replaced_by_token, ''),
		        COALESCE(created_by_ip, ''), COALESCE(revoked_by_ip, '')
		 FROM refresh_tokens WHERE token_hash = $1`,
		hash).Scan(&t.ID, &t.Token, &t.UserID, &t.CreatedAt, &t.ExpiresAt, &t.IsRevoked,
		&t.RevokedAt, &t.RevocationReason, &t.ReplacedByToken, &t.CreatedByIP, &t.RevokedByIP)
	if err != nil {
		if pg.IsNotFound(err) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (p *PostgresRefreshStorage) Revoke(ctx context.Context, params RevokeParams) (bool, error) {
	tag, err := p.pool.Exec(ctx,
		`UPDATE refresh_tokens
		 SET is_revoked = true,
		     revoked_at = now(),
		     revocation_reason = $2,
		     revoked_by_ip = NULLIF($3, ''),
		     replaced_by_token = NULLIF($4, '')
		 WHERE token_hash = $1 AND is_revoked = false`,
		params.TokenHash, params.Reason, params.RevokedByIP, params.ReplacedByToken)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (p *PostgresRefreshStorage) DeleteExpired(ctx context.Context, userID uuid.UUID, now time.Time) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = $1 AND expires_at < $2`,
		userID, now)
	return err
}
