package shop

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/motorlane/shopcore/pkg/scoped"
)

// MemoryStorage is an in-memory gateway honoring the same tenant contract
// as the PostgreSQL store. It backs tests and local development.
type MemoryStorage struct {
	mu             sync.RWMutex
	customers      map[uuid.UUID]*Customer
	vehicles       map[uuid.UUID]*Vehicle
	appointments   map[uuid.UUID]*Appointment
	repairOrders   map[uuid.UUID]*RepairOrder
	serviceItems   map[uuid.UUID]*ServiceItem
	serviceRecords map[uuid.UUID]*ServiceRecord
}

// NewMemoryStorage creates an empty in-memory shop store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		customers:      make(map[uuid.UUID]*Customer),
		vehicles:       make(map[uuid.UUID]*Vehicle),
		appointments:   make(map[uuid.UUID]*Appointment),
		repairOrders:   make(map[uuid.UUID]*RepairOrder),
		serviceItems:   make(map[uuid.UUID]*ServiceItem),
		serviceRecords: make(map[uuid.UUID]*ServiceRecord),
	}
}

func (m *MemoryStorage) CreateCustomer(ctx context.Context, c *Customer) error {
	tenantID, err := scoped.Pin(ctx, c.TenantID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.TenantID = tenantID
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MemoryStorage) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[id]
	if !ok || !scoped.Owns(ctx, c.TenantID) {
		return nil, scoped.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MemoryStorage) ListCustomers(ctx context.Context) ([]Customer, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Customer, 0)
	for _, c := range m.customers {
		if c.TenantID == tenantID {
			out = append(out, *c)
		}
	}
	sortByCreated(out, func(c Customer) time.Time { return c.CreatedAt })
	return out, nil
}

func (m *MemoryStorage) UpdateCustomer(ctx context.Context, c *Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.customers[c.ID]
	if !ok || !scoped.Owns(ctx, existing.TenantID) {
		return scoped.ErrNotFound
	}

	c.TenantID = existing.TenantID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	cp := *c
	m.customers[c.ID] = &cp
	return nil
}

func (m *MemoryStorage) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.customers[id]
	if !ok || !scoped.Owns(ctx, c.TenantID) {
		return scoped.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *MemoryStorage) CreateVehicle(ctx context.Context, v *Vehicle) error {
	tenantID, err := scoped.Pin(ctx, v.TenantID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// The owning customer must exist within the same tenant.
	if c, ok := m.customers[v.CustomerID]; !ok || c.TenantID != tenantID {
		return scoped.ErrNotFound
	}

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.TenantID = tenantID
	now := time.Now()
	v.CreatedAt = now
	v.UpdatedAt = now

	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemoryStorage) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vehicles[id]
	if !ok || !scoped.Owns(ctx, v.TenantID) {
		return nil, scoped.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *MemoryStorage) ListVehiclesByCustomer(ctx context.Context, customerID uuid.UUID) ([]Vehicle, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Vehicle, 0)
	for _, v := range m.vehicles {
		if v.TenantID == tenantID && v.CustomerID == customerID {
			out = append(out, *v)
		}
	}
	sortByCreated(out, func(v Vehicle) time.Time { return v.CreatedAt })
	return out, nil
}

func (m *MemoryStorage) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.vehicles[v.ID]
	if !ok || !scoped.Owns(ctx, existing.TenantID) {
		return scoped.ErrNotFound
	}

	v.TenantID = existing.TenantID
	v.CustomerID = existing.CustomerID
	v.CreatedAt = existing.CreatedAt
	v.UpdatedAt = time.Now()
	cp := *v
	m.vehicles[v.ID] = &cp
	return nil
}

func (m *MemoryStorage) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vehicles[id]
	if !ok || !scoped.Owns(ctx, v.TenantID) {
		return scoped.ErrNotFound
	}
	delete(m.vehicles, id)
	return nil
}

func (m *MemoryStorage) CreateAppointment(ctx context.Context, a *Appointment) error {
	tenantID, err := scoped.Pin(ctx, a.TenantID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vehicles[a.VehicleID]
	if !ok || v.TenantID != tenantID {
		return scoped.ErrNotFound
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.TenantID = tenantID
	a.CustomerID = v.CustomerID
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *MemoryStorage) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.appointments[id]
	if !ok || !scoped.Owns(ctx, a.TenantID) {
		return nil, scoped.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryStorage) ListAppointments(ctx context.Context) ([]Appointment, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Appointment, 0)
	for _, a := range m.appointments {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (m *MemoryStorage) UpdateAppointment(ctx context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.appointments[a.ID]
	if !ok || !scoped.Owns(ctx, existing.TenantID) {
		return scoped.ErrNotFound
	}

	a.TenantID = existing.TenantID
	a.CustomerID = existing.CustomerID
	a.VehicleID = existing.VehicleID
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now()
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *MemoryStorage) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.appointments[id]
	if !ok || !scoped.Owns(ctx, a.TenantID) {
		return scoped.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

func (m *MemoryStorage) CreateRepairOrder(ctx context.Context, o *RepairOrder) error {
	tenantID, err := scoped.Pin(ctx, o.TenantID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vehicles[o.VehicleID]
	if !ok || v.TenantID != tenantID {
		return scoped.ErrNotFound
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.TenantID = tenantID
	o.CustomerID = v.CustomerID
	if o.Status == "" {
		o.Status = RepairOrderOpen
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now

	cp := *o
	m.repairOrders[o.ID] = &cp
	return nil
}

func (m *MemoryStorage) GetRepairOrder(ctx context.Context, id uuid.UUID) (*RepairOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.repairOrders[id]
	if !ok || !scoped.Owns(ctx, o.TenantID) {
		return nil, scoped.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *MemoryStorage) ListRepairOrders(ctx context.Context) ([]RepairOrder, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]RepairOrder, 0)
	for _, o := range m.repairOrders {
		if o.TenantID == tenantID {
			out = append(out, *o)
		}
	}
	sortByCreated(out, func(o RepairOrder) time.Time { return o.CreatedAt })
	return out, nil
}

func (m *MemoryStorage) UpdateRepairOrder(ctx context.Context, o *RepairOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.repairOrders[o.ID]
	if !ok || !scoped.Owns(ctx, existing.TenantID) {
		return scoped.ErrNotFound
	}

	o.TenantID = existing.TenantID
	o.CustomerID = existing.CustomerID
	o.VehicleID = existing.VehicleID
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = time.Now()
	cp := *o
	m.repairOrders[o.ID] = &cp
	return nil
}

func (m *MemoryStorage) AddServiceItem(ctx context.Context, item *ServiceItem) error {
	tenantID, err := scoped.Pin(ctx, item.TenantID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// The parent order must belong to the ambient tenant; an order id valid
	// elsewhere is indistinguishable from a missing one.
	if o, ok := m.repairOrders[item.RepairOrderID]; !ok || o.TenantID != tenantID {
		return scoped.ErrNotFound
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.TenantID = tenantID
	item.CreatedAt = time.Now()

	cp := *item
	m.serviceItems[item.ID] = &cp
	return nil
}

func (m *MemoryStorage) ListServiceItems(ctx context.Context, repairOrderID uuid.UUID) ([]ServiceItem, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ServiceItem, 0)
	for _, item := range m.serviceItems {
		if item.TenantID == tenantID && item.RepairOrderID == repairOrderID {
			out = append(out, *item)
		}
	}
	sortByCreated(out, func(i ServiceItem) time.Time { return i.CreatedAt })
	return out, nil
}

func (m *MemoryStorage) CreateServiceRecord(ctx context.Context, r *ServiceRecord) error {
	tenantID, err := scoped.Pin(ctx, r.TenantID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.vehicles[r.VehicleID]; !ok || v.TenantID != tenantID {
		return scoped.ErrNotFound
	}

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.TenantID = tenantID
	if r.PerformedAt.IsZero() {
		r.PerformedAt = time.Now()
	}
	r.CreatedAt = time.Now()

	cp := *r
	m.serviceRecords[r.ID] = &cp
	return nil
}

func (m *MemoryStorage) GetServiceRecord(ctx context.Context, id uuid.UUID) (*ServiceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.serviceRecords[id]
	if !ok || !scoped.Owns(ctx, r.TenantID) {
		return nil, scoped.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryStorage) ListServiceRecordsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]ServiceRecord, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ServiceRecord, 0)
	for _, r := range m.serviceRecords {
		if r.TenantID == tenantID && r.VehicleID == vehicleID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.Before(out[j].PerformedAt) })
	return out, nil
}

func sortByCreated[T any](items []T, createdAt func(T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return createdAt(items[i]).Before(createdAt(items[j]))
	})
}
