package shop

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a person or company bringing vehicles to the shop.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vehicle belongs to a customer within the same tenant.
type Vehicle struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year,omitempty"`
	Plate      string    `json:"plate,omitempty"`
	VIN        string    `json:"vin,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AppointmentStatus is the scheduling state of an appointment.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
	AppointmentNoShow    AppointmentStatus = "no_show"
)

// Appointment is a scheduled visit for one vehicle.
type Appointment struct {
	ID          uuid.UUID         `json:"id"`
	TenantID    uuid.UUID         `json:"tenant_id"`
	CustomerID  uuid.UUID         `json:"customer_id"`
	VehicleID   uuid.UUID         `json:"vehicle_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// RepairOrderStatus is the work state of a repair order.
type RepairOrderStatus string

const (
	RepairOrderOpen       RepairOrderStatus = "open"
	RepairOrderInProgress RepairOrderStatus = "in_progress"
	RepairOrderCompleted  RepairOrderStatus = "completed"
	RepairOrderInvoiced   RepairOrderStatus = "invoiced"
	RepairOrderClosed     RepairOrderStatus = "closed"
)

// RepairOrder groups the work performed on one vehicle visit. Line items
// hang off it as ServiceItem rows.
type RepairOrder struct {
	ID         uuid.UUID         `json:"id"`
	TenantID   uuid.UUID         `json:"tenant_id"`
	CustomerID uuid.UUID         `json:"customer_id"`
	VehicleID  uuid.UUID         `json:"vehicle_id"`
	Number     string            `json:"number"`
	Status     RepairOrderStatus `json:"status"`
	Notes      string            `json:"notes,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// ServiceItem is one line of work or parts on a repair order. Amounts are
// kept in cents.
type ServiceItem struct {
	ID            uuid.UUID `json:"id"`
	TenantID      uuid.UUID `json:"tenant_id"`
	RepairOrderID uuid.UUID `json:"repair_order_id"`
	Description   string    `json:"description"`
	Quantity      int       `json:"quantity"`
	UnitPriceCent int64     `json:"unit_price_cents"`
	CreatedAt     time.Time `json:"created_at"`
}

// ServiceRecord is the permanent history entry written when work on a
// vehicle completes.
type ServiceRecord struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	VehicleID     uuid.UUID  `json:"vehicle_id"`
	RepairOrderID *uuid.UUID `json:"repair_order_id,omitempty"`
	Summary       string     `json:"summary"`
	Odometer      int        `json:"odometer,omitempty"`
	PerformedAt   time.Time  `json:"performed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}
