package shop_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlane/shopcore/modules/shop"
	"github.com/motorlane/shopcore/modules/staff"
	"github.com/motorlane/shopcore/pkg/tenant"
)

type testShop struct {
	store   *shop.MemoryStorage
	handler http.Handler
	ctx     context.Context
}

// newTestShop wires the shop router behind a fixed tenant and a staff
// member with the given role, mirroring the production middleware order.
func newTestShop(t *testing.T, role staff.Role) *testShop {
	t.Helper()

	tn := &tenant.Tenant{ID: uuid.New(), Slug: "midtown-garage", Status: tenant.StatusActive}
	ctx := tenant.WithTenant(context.Background(), tn)

	staffStore := staff.NewMemoryStorage()
	member := &staff.Staff{UserID: uuid.New(), Email: "tech@example.com", Role: role, Status: staff.StatusActive}
	require.NoError(t, staffStore.Create(ctx, member))

	source := func(context.Context) (staff.Principal, bool) {
		return staff.Principal{StaffID: member.ID}, true
	}
	guard := func(roles ...staff.Role) func(http.Handler) http.Handler {
		return staff.RequireRole(source, staffStore, roles...)
	}

	store := shop.NewMemoryStorage()
	router := shop.NewHandler(store, guard).Router()

	// Inject the tenant the way the resolution middleware would.
	wrapped := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		router.ServeHTTP(w, r.WithContext(tenant.WithTenant(r.Context(), tn)))
	})

	return &testShop{store: store, handler: wrapped, ctx: ctx}
}

func (ts *testShop) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Customers(t *testing.T) {
	t.Parallel()

	t.Run("create and fetch", func(t *testing.T) {
		t.Parallel()

		ts := newTestShop(t, staff.RoleAdvisor)
		rec := ts.do(http.MethodPost, "/customers", `{"name":"Alice","email":"alice@example.com"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = ts.do(http.MethodGet, "/customers", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Alice")
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		t.Parallel()

		ts := newTestShop(t, staff.RoleAdvisor)
		rec := ts.do(http.MethodPost, "/customers", `{"email":"x@y.z"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id yields 404", func(t *testing.T) {
		t.Parallel()

		ts := newTestShop(t, staff.RoleAdvisor)
		rec := ts.do(http.MethodGet, "/customers/"+uuid.NewString(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id yields 400", func(t *testing.T) {
		t.Parallel()

		ts := newTestShop(t, staff.RoleAdvisor)
		rec := ts.do(http.MethodGet, "/customers/not-a-uuid", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("another tenant's customer yields 404", func(t *testing.T) {
		t.Parallel()

		ts := newTestShop(t, staff.RoleAdvisor)
		foreignCtx := tenant.WithTenant(context.Background(), &tenant.Tenant{
			ID: uuid.New(), Slug: "rival-shop", Status: tenant.StatusActive,
		})
		c := &shop.Customer{Name: "Bob"}
		require.NoError(t, ts.store.CreateCustomer(foreignCtx, c))

		rec := ts.do(http.MethodGet, "/customers/"+c.ID.String(), "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_RoleEnforcement(t *testing.T) {
	t.Parallel()

	t.Run("technician cannot delete", func(t *testing.T) {
		t.Parallel()

		ts := newTestShop(t, staff.RoleTechnician)
		c := &shop.Customer{Name: "Alice"}
		require.NoError(t, ts.store.CreateCustomer(ts.ctx, c))

		rec := ts.do(http.MethodDelete, "/customers/"+c.ID.String(), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "requiredRoles")

		_, err := ts.store.GetCustomer(ts.ctx, c.ID)
		assert.NoError(t, err)
	})

	t.Run("manager can delete", func(t *testing.T) {
		t.Parallel()

		ts := newTestShop(t, staff.RoleManager)
		c := &shop.Customer{Name: "Alice"}
		require.NoError(t, ts.store.CreateCustomer(ts.ctx, c))

		rec := ts.do(http.MethodDelete, "/customers/"+c.ID.String(), "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestHandler_RepairOrderFlow(t *testing.T) {
	t.Parallel()

	ts := newTestShop(t, staff.RoleAdvisor)

	owner := &shop.Customer{Name: "Alice"}
	require.NoError(t, ts.store.CreateCustomer(ts.ctx, owner))
	v := &shop.Vehicle{CustomerID: owner.ID, Make: "Honda", Model: "Civic"}
	require.NoError(t, ts.store.CreateVehicle(ts.ctx, v))

	rec := ts.do(http.MethodPost, "/orders", `{"vehicle_id":"`+v.ID.String()+`","number":"RO-1001"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	orders, err := ts.store.ListRepairOrders(ts.ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	orderID := orders[0].ID.String()

	rec = ts.do(http.MethodPost, "/orders/"+orderID+"/items",
		`{"description":"Brake pads","quantity":2,"unit_price_cents":4500}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(http.MethodGet, "/orders/"+orderID+"/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brake pads")

	// Line items cannot attach to an order id that is not in this tenant.
	rec = ts.do(http.MethodPost, "/orders/"+uuid.NewString()+"/items",
		`{"description":"Oil","quantity":1,"unit_price_cents":900}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
