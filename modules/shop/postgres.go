package shop

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motorlane/shopcore/pkg/pg"
	"github.com/motorlane/shopcore/pkg/scoped"
)

// PostgresStorage is the PostgreSQL gateway. The ambient tenant predicate
// appears on every statement, including the relation-parent subqueries, so
// no row ever crosses a tenant boundary even through joins.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a shop store over the given pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func notFoundOr(err error) error {
	if pg.IsNotFound(err) {
		return scoped.ErrNotFound
	}
	return err
}

const customerColumns = `id, tenant_id, name, email, phone, created_at, updated_at`

func scanCustomer(row rowScanner) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

func (p *PostgresStorage) CreateCustomer(ctx context.Context, c *Customer) error {
	tenantID, err := scoped.Pin(ctx, c.TenantID)
	if err != nil {
		return err
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.TenantID = tenantID

	row := p.pool.QueryRow(ctx,
		`INSERT INTO customers (id, tenant_id, name, email, phone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`,
		c.ID, c.TenantID, c.Name, c.Email, c.Phone)
	return row.Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (p *PostgresStorage) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	return scanCustomer(row)
}

func (p *PostgresStorage) ListCustomers(ctx context.Context) ([]Customer, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCustomer)
}

func (p *PostgresStorage) UpdateCustomer(ctx context.Context, c *Customer) error {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return err
	}

	row := p.pool.QueryRow(ctx,
		`UPDATE customers SET name = $3, email = $4, phone = $5, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2
		 RETURNING tenant_id, created_at, updated_at`,
		c.ID, tenantID, c.Name, c.Email, c.Phone)
	return notFoundOrNil(row.Scan(&c.TenantID, &c.CreatedAt, &c.UpdatedAt))
}

func (p *PostgresStorage) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return p.deleteScoped(ctx, `DELETE FROM customers WHERE id = $1 AND tenant_id = $2`, id)
}

const vehicleColumns = `id, tenant_id, customer_id, make, model, year, plate, vin, created_at, updated_at`

func scanVehicle(row rowScanner) (*Vehicle, error) {
	var v Vehicle
	err := row.Scan(&v.ID, &v.TenantID, &v.CustomerID, &v.Make, &v.Model, &v.Year, &v.Plate, &v.VIN, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &v, nil
}

func (p *PostgresStorage) CreateVehicle(ctx context.Context, v *Vehicle) error {
	tenantID, err := scoped.Pin(ctx, v.TenantID)
	if err != nil {
		return err
	}

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.TenantID = tenantID

	// The owning customer is checked inside the same tenant; an insert
	// naming another tenant's customer matches zero parent rows.
	row := p.pool.QueryRow(ctx,
		`INSERT INTO vehicles (id, tenant_id, customer_id, make, model, year, plate, vin)
		 SELECT $1, $2, c.id, $4, $5, $6, $7, $8
		 FROM customers c WHERE c.id = $3 AND c.tenant_id = $2
		 RETURNING created_at, updated_at`,
		v.ID, v.TenantID, v.CustomerID, v.Make, v.Model, v.Year, v.Plate, v.VIN)
	return notFoundOrNil(row.Scan(&v.CreatedAt, &v.UpdatedAt))
}

func (p *PostgresStorage) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	return scanVehicle(row)
}

func (p *PostgresStorage) ListVehiclesByCustomer(ctx context.Context, customerID uuid.UUID) ([]Vehicle, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles
		 WHERE customer_id = $1 AND tenant_id = $2 ORDER BY created_at`,
		customerID, tenantID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanVehicle)
}

func (p *PostgresStorage) UpdateVehicle(ctx context.Context, v *Vehicle) error {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return err
	}

	row := p.pool.QueryRow(ctx,
		`UPDATE vehicles SET make = $3, model = $4, year = $5, plate = $6, vin = $7, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2
		 RETURNING tenant_id, customer_id, created_at, updated_at`,
		v.ID, tenantID, v.Make, v.Model, v.Year, v.Plate, v.VIN)
	return notFoundOrNil(row.Scan(&v.TenantID, &v.CustomerID, &v.CreatedAt, &v.UpdatedAt))
}

func (p *PostgresStorage) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return p.deleteScoped(ctx, `DELETE FROM vehicles WHERE id = $1 AND tenant_id = $2`, id)
}

const appointmentColumns = `id, tenant_id, customer_id, vehicle_id, scheduled_at, status, notes, created_at, updated_at`

func scanAppointment(row rowScanner) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.TenantID, &a.CustomerID, &a.VehicleID, &a.ScheduledAt, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &a, nil
}

func (p *PostgresStorage) CreateAppointment(ctx context.Context, a *Appointment) error {
	tenantID, err := scoped.Pin(ctx, a.TenantID)
	if err != nil {
		return err
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.TenantID = tenantID
	if a.Status == "" {
		a.Status = AppointmentScheduled
	}

	row := p.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, tenant_id, customer_id, vehicle_id, scheduled_at, status, notes)
		 SELECT $1, $2, v.customer_id, v.id, $4, $5, $6
		 FROM vehicles v WHERE v.id = $3 AND v.tenant_id = $2
		 RETURNING customer_id, created_at, updated_at`,
		a.ID, a.TenantID, a.VehicleID, a.ScheduledAt, a.Status, a.Notes)
	return notFoundOrNil(row.Scan(&a.CustomerID, &a.CreatedAt, &a.UpdatedAt))
}

func (p *PostgresStorage) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	return scanAppointment(row)
}

func (p *PostgresStorage) ListAppointments(ctx context.Context) ([]Appointment, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE tenant_id = $1 ORDER BY scheduled_at`,
		tenantID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAppointment)
}

func (p *PostgresStorage) UpdateAppointment(ctx context.Context, a *Appointment) error {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return err
	}

	row := p.pool.QueryRow(ctx,
		`UPDATE appointments SET scheduled_at = $3, status = $4, notes = $5, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2
		 RETURNING tenant_id, customer_id, vehicle_id, created_at, updated_at`,
		a.ID, tenantID, a.ScheduledAt, a.Status, a.Notes)
	return notFoundOrNil(row.Scan(&a.TenantID, &a.CustomerID, &a.VehicleID, &a.CreatedAt, &a.UpdatedAt))
}

func (p *PostgresStorage) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return p.deleteScoped(ctx, `DELETE FROM appointments WHERE id = $1 AND tenant_id = $2`, id)
}

const repairOrderColumns = `id, tenant_id, customer_id, vehicle_id, number, status, notes, created_at, updated_at`

func scanRepairOrder(row rowScanner) (*RepairOrder, error) {
	var o RepairOrder
	err := row.Scan(&o.ID, &o.TenantID, &o.CustomerID, &o.VehicleID, &o.Number, &o.Status, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &o, nil
}

func (p *PostgresStorage) CreateRepairOrder(ctx context.Context, o *RepairOrder) error {
	tenantID, err := scoped.Pin(ctx, o.TenantID)
	if err != nil {
		return err
	}

	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.TenantID = tenantID
	if o.Status == "" {
		o.Status = RepairOrderOpen
	}

	row := p.pool.QueryRow(ctx,
		`INSERT INTO repair_orders (id, tenant_id, customer_id, vehicle_id, number, status, notes)
		 SELECT $1, $2, v.customer_id, v.id, $4, $5, $6
		 FROM vehicles v WHERE v.id = $3 AND v.tenant_id = $2
		 RETURNING customer_id, created_at, updated_at`,
		o.ID, o.TenantID, o.VehicleID, o.Number, o.Status, o.Notes)
	return notFoundOrNil(row.Scan(&o.CustomerID, &o.CreatedAt, &o.UpdatedAt))
}

func (p *PostgresStorage) GetRepairOrder(ctx context.Context, id uuid.UUID) (*RepairOrder, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+repairOrderColumns+` FROM repair_orders WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	return scanRepairOrder(row)
}

func (p *PostgresStorage) ListRepairOrders(ctx context.Context) ([]RepairOrder, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+repairOrderColumns+` FROM repair_orders WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRepairOrder)
}

func (p *PostgresStorage) UpdateRepairOrder(ctx context.Context, o *RepairOrder) error {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return err
	}

	row := p.pool.QueryRow(ctx,
		`UPDATE repair_orders SET number = $3, status = $4, notes = $5, updated_at = now()
		 WHERE id = $1 AND tenant_id = $2
		 RETURNING tenant_id, customer_id, vehicle_id, created_at, updated_at`,
		o.ID, tenantID, o.Number, o.Status, o.Notes)
	return notFoundOrNil(row.Scan(&o.TenantID, &o.CustomerID, &o.VehicleID, &o.CreatedAt, &o.UpdatedAt))
}

const serviceItemColumns = `id, tenant_id, repair_order_id, description, quantity, unit_price_cents, created_at`

func scanServiceItem(row rowScanner) (*ServiceItem, error) {
	var i ServiceItem
	err := row.Scan(&i.ID, &i.TenantID, &i.RepairOrderID, &i.Description, &i.Quantity, &i.UnitPriceCent, &i.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &i, nil
}

func (p *PostgresStorage) AddServiceItem(ctx context.Context, item *ServiceItem) error {
	tenantID, err := scoped.Pin(ctx, item.TenantID)
	if err != nil {
		return err
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.TenantID = tenantID

	row := p.pool.QueryRow(ctx,
		`INSERT INTO service_items (id, tenant_id, repair_order_id, description, quantity, unit_price_cents)
		 SELECT $1, $2, o.id, $4, $5, $6
		 FROM repair_orders o WHERE o.id = $3 AND o.tenant_id = $2
		 RETURNING created_at`,
		item.ID, item.TenantID, item.RepairOrderID, item.Description, item.Quantity, item.UnitPriceCent)
	return notFoundOrNil(row.Scan(&item.CreatedAt))
}

func (p *PostgresStorage) ListServiceItems(ctx context.Context, repairOrderID uuid.UUID) ([]ServiceItem, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+serviceItemColumns+` FROM service_items
		 WHERE repair_order_id = $1 AND tenant_id = $2 ORDER BY created_at`,
		repairOrderID, tenantID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanServiceItem)
}

const serviceRecordColumns = `id, tenant_id, vehicle_id, repair_order_id, summary, odometer, performed_at, created_at`

func scanServiceRecord(row rowScanner) (*ServiceRecord, error) {
	var r ServiceRecord
	err := row.Scan(&r.ID, &r.TenantID, &r.VehicleID, &r.RepairOrderID, &r.Summary, &r.Odometer, &r.PerformedAt, &r.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &r, nil
}

func (p *PostgresStorage) CreateServiceRecord(ctx context.Context, r *ServiceRecord) error {
	tenantID, err := scoped.Pin(ctx, r.TenantID)
	if err != nil {
		return err
	}

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.TenantID = tenantID

	row := p.pool.QueryRow(ctx,
		`INSERT INTO service_records (id, tenant_id, vehicle_id, repair_order_id, summary, odometer, performed_at)
		 SELECT $1, $2, v.id, $4, $5, $6, COALESCE($7, now())
		 FROM vehicles v WHERE v.id = $3 AND v.tenant_id = $2
		 RETURNING performed_at, created_at`,
		r.ID, r.TenantID, r.VehicleID, r.RepairOrderID, r.Summary, r.Odometer, nullTime(r.PerformedAt))
	return notFoundOrNil(row.Scan(&r.PerformedAt, &r.CreatedAt))
}

func (p *PostgresStorage) GetServiceRecord(ctx context.Context, id uuid.UUID) (*ServiceRecord, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	row := p.pool.QueryRow(ctx,
		`SELECT `+serviceRecordColumns+` FROM service_records WHERE id = $1 AND tenant_id = $2`,
		id, tenantID)
	return scanServiceRecord(row)
}

func (p *PostgresStorage) ListServiceRecordsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]ServiceRecord, error) {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+serviceRecordColumns+` FROM service_records
		 WHERE vehicle_id = $1 AND tenant_id = $2 ORDER BY performed_at`,
		vehicleID, tenantID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanServiceRecord)
}

func (p *PostgresStorage) deleteScoped(ctx context.Context, query string, id uuid.UUID) error {
	tenantID, err := scoped.TenantID(ctx)
	if err != nil {
		return err
	}

	tag, err := p.pool.Exec(ctx, query, id, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return scoped.ErrNotFound
	}
	return nil
}

func notFoundOrNil(err error) error {
	if err == nil {
		return nil
	}
	return notFoundOr(err)
}

func collect[T any](rows pgx.Rows, scan func(rowScanner) (*T, error)) ([]T, error) {
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *item)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
