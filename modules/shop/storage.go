package shop

import (
	"context"

	"github.com/google/uuid"
)

// Storage is the tenant-scoped gateway over shop entities. Every method
// derives the tenant from the ambient context: reads are predicated on it,
// writes are pinned to it, and with no ambient tenant every method fails
// with scoped.ErrNoTenant. A row owned by another tenant is reported as
// scoped.ErrNotFound, indistinguishable from a missing row.
type Storage interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	DeleteCustomer(ctx context.Context, id uuid.UUID) error

	CreateVehicle(ctx context.Context, v *Vehicle) error
	GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error)
	// ListVehiclesByCustomer applies the tenant predicate to the vehicle
	// rows themselves, not just the customer: relation traversal never
	// widens visibility.
	ListVehiclesByCustomer(ctx context.Context, customerID uuid.UUID) ([]Vehicle, error)
	UpdateVehicle(ctx context.Context, v *Vehicle) error
	DeleteVehicle(ctx context.Context, id uuid.UUID) error

	CreateAppointment(ctx context.Context, a *Appointment) error
	GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAppointments(ctx context.Context) ([]Appointment, error)
	UpdateAppointment(ctx context.Context, a *Appointment) error
	DeleteAppointment(ctx context.Context, id uuid.UUID) error

	CreateRepairOrder(ctx context.Context, o *RepairOrder) error
	GetRepairOrder(ctx context.Context, id uuid.UUID) (*RepairOrder, error)
	ListRepairOrders(ctx context.Context) ([]RepairOrder, error)
	UpdateRepairOrder(ctx context.Context, o *RepairOrder) error

	AddServiceItem(ctx context.Context, item *ServiceItem) error
	ListServiceItems(ctx context.Context, repairOrderID uuid.UUID) ([]ServiceItem, error)

	CreateServiceRecord(ctx context.Context, r *ServiceRecord) error
	GetServiceRecord(ctx context.Context, id uuid.UUID) (*ServiceRecord, error)
	ListServiceRecordsByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]ServiceRecord, error)
}
