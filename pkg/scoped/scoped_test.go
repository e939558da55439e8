package scoped_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/shopcore/pkg/scoped"
	"github.com/motorlane/shopcore/pkg/tenant"
)

func tenantCtx(t *tenant.Tenant) context.Context {
	return tenant.WithTenant(context.Background(), t)
}

func TestTenantID(t *testing.T) {
	t.Parallel()

	t.Run("returns ambient tenant id", func(t *testing.T) {
		t.Parallel()

		tt := &tenant.Tenant{ID: uuid.New(), Slug: "acme", Status: tenant.StatusActive}
		id, err := scoped.TenantID(tenantCtx(tt))
		require.NoError(t, err)
		assert.Equal(t, tt.ID, id)
	})

	t.Run("fails closed without ambient tenant", func(t *testing.T) {
		t.Parallel()

		_, err := scoped.TenantID(context.Background())
		assert.ErrorIs(t, err, scoped.ErrNoTenant)
	})
}

func TestPin(t *testing.T) {
	t.Parallel()

	t.Run("ambient tenant wins over submitted value", func(t *testing.T) {
		t.Parallel()

		ambient := &tenant.Tenant{ID: uuid.New(), Slug: "t1", Status: tenant.StatusActive}
		foreign := uuid.New()

		pinned, err := scoped.Pin(tenantCtx(ambient), foreign)
		require.NoError(t, err)
		assert.Equal(t, ambient.ID, pinned)
		assert.NotEqual(t, foreign, pinned)
	})

	t.Run("rejects writes without ambient tenant", func(t *testing.T) {
		t.Parallel()

		_, err := scoped.Pin(context.Background(), uuid.New())
		assert.ErrorIs(t, err, scoped.ErrNoTenant)
	})
}

func TestOwns(t *testing.T) {
	t.Parallel()

	ambient := &tenant.Tenant{ID: uuid.New(), Slug: "t1", Status: tenant.StatusActive}
	ctx := tenantCtx(ambient)

	assert.True(t, scoped.Owns(ctx, ambient.ID))
	assert.False(t, scoped.Owns(ctx, uuid.New()))
	assert.False(t, scoped.Owns(context.Background(), ambient.ID))
}
