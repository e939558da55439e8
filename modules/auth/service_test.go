package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/motorlane/shopcore/modules/auth"
	"github.com/motorlane/shopcore/modules/staff"
	"github.com/motorlane/shopcore/pkg/tenant"
)

const (
	testEmail    = "mechanic@example.com"
	testPassword = "correct horse battery staple"
)

type testEnv struct {
	svc     *auth.Service
	users   *auth.MemoryUserStorage
	refresh *auth.MemoryRefreshStorage
	staff   *staff.MemoryStorage
	user    *auth.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	users := auth.NewMemoryUserStorage()
	user := &auth.User{Email: testEmail, PasswordHash: hash}
	users.Add(user)

	refresh := auth.NewMemoryRefreshStorage()
	staffStore := staff.NewMemoryStorage()

	svc, err := auth.NewService(auth.Config{
		SigningKey: "test-signing-key",
		Issuer:     "shopcore",
		Audience:   "shopcore-api",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}, users, refresh, staffStore, nil)
	require.NoError(t, err)

	return &testEnv{svc: svc, users: users, refresh: refresh, staff: staffStore, user: user}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		pair, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.True(t, pair.AccessExpiresAt.After(time.Now()))
		assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

		claims, err := env.svc.VerifyAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, env.user.ID.String(), claims.Subject)
		assert.Equal(t, testEmail, claims.Email)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, err := env.svc.Login(context.Background(), testEmail, "nope", "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email is rejected with the same error", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, err := env.svc.Login(context.Background(), "ghost@example.com", testPassword, "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("tenant-scoped login embeds staff and tenant claims", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		tn := &tenant.Tenant{
			ID:     uuid.New(),
			Slug:   "midtown-garage",
			Name:   "Midtown Garage",
			Status: tenant.StatusActive,
		}
		ctx := tenant.WithTenant(context.Background(), tn)

		member := &staff.Staff{
			UserID: env.user.ID,
			Email:  testEmail,
			Name:   "Pat Mechanic",
			Role:   staff.RoleTechnician,
			Status: staff.StatusActive,
		}
		require.NoError(t, env.staff.Create(ctx, member))

		pair, err := env.svc.Login(ctx, testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		claims, err := env.svc.VerifyAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, member.ID.String(), claims.StaffID)
		assert.Equal(t, string(staff.RoleTechnician), claims.StaffRole)
		assert.Equal(t, tn.ID.String(), claims.TenantID)
		assert.Equal(t, "midtown-garage", claims.TenantSlug)
	})

	t.Run("login without tenant scope yields bare identity claims", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		pair, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		claims, err := env.svc.VerifyAccessToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Empty(t, claims.StaffID)
		assert.Empty(t, claims.TenantID)
		assert.Empty(t, claims.TenantSlug)
	})
}

func TestService_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("exchange rotates the token", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		first, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		second, err := env.svc.Refresh(context.Background(), first.RefreshToken, "10.0.0.2")
		require.NoError(t, err)
		assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
		assert.NotEmpty(t, second.AccessToken)

		// The presented token is revoked with a forward pointer to the new one.
		row := getTokenRow(t, env, first.RefreshToken)
		assert.True(t, row.IsRevoked)
		assert.Equal(t, auth.RevocationReasonRotated, row.RevocationReason)
		assert.NotEmpty(t, row.ReplacedByToken)
		assert.Equal(t, "10.0.0.2", row.RevokedByIP)
	})

	t.Run("spent token cannot be exchanged twice", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		first, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		_, err = env.svc.Refresh(context.Background(), first.RefreshToken, "10.0.0.1")
		require.NoError(t, err)

		_, err = env.svc.Refresh(context.Background(), first.RefreshToken, "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("replay revokes the rest of the chain", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		first, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		second, err := env.svc.Refresh(context.Background(), first.RefreshToken, "10.0.0.1")
		require.NoError(t, err)
		third, err := env.svc.Refresh(context.Background(), second.RefreshToken, "10.0.0.1")
		require.NoError(t, err)

		// An attacker replays the first token: the still-active tail of the
		// chain must be locked out too.
		_, err = env.svc.Refresh(context.Background(), first.RefreshToken, "192.0.2.66")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)

		row := getTokenRow(t, env, third.RefreshToken)
		assert.True(t, row.IsRevoked)
		assert.Equal(t, auth.RevocationReasonReplay, row.RevocationReason)

		_, err = env.svc.Refresh(context.Background(), third.RefreshToken, "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired token cannot be exchanged", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		raw := "expired-but-never-revoked"
		require.NoError(t, env.refresh.Create(context.Background(), &auth.RefreshToken{
			Token:     auth.HashToken(raw),
			UserID:    env.user.ID,
			ExpiresAt: time.Now().Add(-time.Minute),
		}))

		_, err := env.svc.Refresh(context.Background(), raw, "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)

		// Expiry alone rejects the exchange; the row is not retroactively
		// marked revoked.
		row := getTokenRow(t, env, raw)
		assert.False(t, row.IsRevoked)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, err := env.svc.Refresh(context.Background(), "not-a-token", "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("empty token is rejected", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		_, err := env.svc.Refresh(context.Background(), "", "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("concurrent exchanges of one token have exactly one winner", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		first, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		const attempts = 16
		var wg sync.WaitGroup
		results := make([]error, attempts)

		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = env.svc.Refresh(context.Background(), first.RefreshToken, "10.0.0.1")
			}()
		}
		wg.Wait()

		var wins int
		for _, err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, auth.ErrInvalidToken)
			}
		}
		assert.Equal(t, 1, wins)
	})
}

func TestService_Logout(t *testing.T) {
	t.Parallel()

	t.Run("revokes the refresh token", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		pair, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)

		require.NoError(t, env.svc.Logout(context.Background(), pair.RefreshToken, "10.0.0.1"))

		row := getTokenRow(t, env, pair.RefreshToken)
		assert.True(t, row.IsRevoked)
		assert.Equal(t, auth.RevocationReasonLogout, row.RevocationReason)

		_, err = env.svc.Refresh(context.Background(), pair.RefreshToken, "10.0.0.1")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("is idempotent for unknown and repeated tokens", func(t *testing.T) {
		t.Parallel()

		env := newTestEnv(t)
		assert.NoError(t, env.svc.Logout(context.Background(), "never-issued", "10.0.0.1"))
		assert.NoError(t, env.svc.Logout(context.Background(), "", "10.0.0.1"))

		pair, err := env.svc.Login(context.Background(), testEmail, testPassword, "10.0.0.1")
		require.NoError(t, err)
		assert.NoError(t, env.svc.Logout(context.Background(), pair.RefreshToken, "10.0.0.1"))
		assert.NoError(t, env.svc.Logout(context.Background(), pair.RefreshToken, "10.0.0.1"))
	})
}

// getTokenRow loads the stored row for a raw token. Rows are keyed by hash.
func getTokenRow(t *testing.T, env *testEnv, rawToken string) *auth.RefreshToken {
	t.Helper()

	row, err := env.refresh.GetByTokenHash(context.Background(), auth.HashToken(rawToken))
	require.NoError(t, err)
	return row
}
