package shop

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/motorlane/shopcore/core"
	"github.com/motorlane/shopcore/modules/staff"
	"github.com/motorlane/shopcore/pkg/scoped"
)

// Guard builds role-checking middleware for a required role set.
type Guard func(roles ...staff.Role) func(http.Handler) http.Handler

// Handler serves the shop entity endpoints. Reads and routine writes are
// open to any active staff; destructive operations require a management
// role.
type Handler struct {
	storage Storage
	guard   Guard
}

// NewHandler creates the shop HTTP handler.
func NewHandler(storage Storage, guard Guard) *Handler {
	return &Handler{storage: storage, guard: guard}
}

// Router mounts the shop endpoints. Callers mount it behind tenant
// resolution; the role guard runs here.
func (h *Handler) Router() chi.Router {
	anyStaff := h.guard()
	managers := h.guard(staff.RoleOwner, staff.RoleManager)

	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(anyStaff)

		r.Get("/customers", h.listCustomers)
		r.Post("/customers", h.createCustomer)
		r.Get("/customers/{id}", h.getCustomer)
		r.Put("/customers/{id}", h.updateCustomer)
		r.Get("/customers/{id}/vehicles", h.listVehicles)

		r.Post("/vehicles", h.createVehicle)
		r.Get("/vehicles/{id}", h.getVehicle)
		r.Put("/vehicles/{id}", h.updateVehicle)
		r.Get("/vehicles/{id}/records", h.listServiceRecords)

		r.Get("/appointments", h.listAppointments)
		r.Post("/appointments", h.createAppointment)
		r.Get("/appointments/{id}", h.getAppointment)
		r.Put("/appointments/{id}", h.updateAppointment)

		r.Get("/orders", h.listRepairOrders)
		r.Post("/orders", h.createRepairOrder)
		r.Get("/orders/{id}", h.getRepairOrder)
		r.Put("/orders/{id}", h.updateRepairOrder)
		r.Get("/orders/{id}/items", h.listServiceItems)
		r.Post("/orders/{id}/items", h.addServiceItem)

		r.Post("/records", h.createServiceRecord)
		r.Get("/records/{id}", h.getServiceRecord)
	})

	r.Group(func(r chi.Router) {
		r.Use(managers)

		r.Delete("/customers/{id}", h.deleteCustomer)
		r.Delete("/vehicles/{id}", h.deleteVehicle)
		r.Delete("/appointments/{id}", h.deleteAppointment)
	})

	return r
}

func idParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, core.NewHTTPError(http.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

// writeStorageError maps gateway failures onto the HTTP surface. Rows the
// tenant cannot see and rows that do not exist produce the same 404.
func writeStorageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoped.ErrNotFound):
		core.JSONError(w, core.ErrNotFound)
	case errors.Is(err, scoped.ErrNoTenant):
		core.JSONError(w, core.NewHTTPError(http.StatusUnauthorized, "Tenant context is required"))
	default:
		core.JSONError(w, err)
	}
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.storage.ListCustomers(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, customers)
}

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if req.Name == "" {
		core.JSONError(w, core.NewHTTPError(http.StatusBadRequest, "Name is required"))
		return
	}

	c := Customer{Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.storage.CreateCustomer(r.Context(), &c); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, c)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.storage.GetCustomer(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, c)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req customerRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	c := Customer{ID: id, Name: req.Name, Email: req.Email, Phone: req.Phone}
	if err := h.storage.UpdateCustomer(r.Context(), &c); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, c)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.storage.DeleteCustomer(r.Context(), id); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	customerID, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	vehicles, err := h.storage.ListVehiclesByCustomer(r.Context(), customerID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, vehicles)
}

type vehicleRequest struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Make       string    `json:"make"`
	Model      string    `json:"model"`
	Year       int       `json:"year"`
	Plate      string    `json:"plate"`
	VIN        string    `json:"vin"`
}

func (h *Handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req vehicleRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if req.CustomerID == uuid.Nil || req.Make == "" || req.Model == "" {
		core.JSONError(w, core.NewHTTPError(http.StatusBadRequest, "Customer id, make and model are required"))
		return
	}

	v := Vehicle{
		CustomerID: req.CustomerID,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		Plate:      req.Plate,
		VIN:        req.VIN,
	}
	if err := h.storage.CreateVehicle(r.Context(), &v); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, v)
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	v, err := h.storage.GetVehicle(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, v)
}

func (h *Handler) updateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req vehicleRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	v := Vehicle{ID: id, Make: req.Make, Model: req.Model, Year: req.Year, Plate: req.Plate, VIN: req.VIN}
	if err := h.storage.UpdateVehicle(r.Context(), &v); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, v)
}

func (h *Handler) deleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.storage.DeleteVehicle(r.Context(), id); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.storage.ListAppointments(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, appointments)
}

type appointmentRequest struct {
	VehicleID   uuid.UUID         `json:"vehicle_id"`
	ScheduledAt time.Time         `json:"scheduled_at"`
	Status      AppointmentStatus `json:"status"`
	Notes       string            `json:"notes"`
}

func (h *Handler) createAppointment(w http.ResponseWriter, r *http.Request) {
	var req appointmentRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if req.VehicleID == uuid.Nil || req.ScheduledAt.IsZero() {
		core.JSONError(w, core.NewHTTPError(http.StatusBadRequest, "Vehicle id and scheduled time are required"))
		return
	}

	a := Appointment{
		VehicleID:   req.VehicleID,
		ScheduledAt: req.ScheduledAt,
		Status:      req.Status,
		Notes:       req.Notes,
	}
	if err := h.storage.CreateAppointment(r.Context(), &a); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, a)
}

func (h *Handler) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	a, err := h.storage.GetAppointment(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, a)
}

func (h *Handler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req appointmentRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	a := Appointment{ID: id, ScheduledAt: req.ScheduledAt, Status: req.Status, Notes: req.Notes}
	if err := h.storage.UpdateAppointment(r.Context(), &a); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, a)
}

func (h *Handler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	if err := h.storage.DeleteAppointment(r.Context(), id); err != nil {
		writeStorageError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listRepairOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.storage.ListRepairOrders(r.Context())
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, orders)
}

type repairOrderRequest struct {
	VehicleID uuid.UUID         `json:"vehicle_id"`
	Number    string            `json:"number"`
	Status    RepairOrderStatus `json:"status"`
	Notes     string            `json:"notes"`
}

func (h *Handler) createRepairOrder(w http.ResponseWriter, r *http.Request) {
	var req repairOrderRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if req.VehicleID == uuid.Nil || req.Number == "" {
		core.JSONError(w, core.NewHTTPError(http.StatusBadRequest, "Vehicle id and order number are required"))
		return
	}

	o := RepairOrder{
		VehicleID: req.VehicleID,
		Number:    req.Number,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if err := h.storage.CreateRepairOrder(r.Context(), &o); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, o)
}

func (h *Handler) getRepairOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	o, err := h.storage.GetRepairOrder(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, o)
}

func (h *Handler) updateRepairOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req repairOrderRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	o := RepairOrder{ID: id, Number: req.Number, Status: req.Status, Notes: req.Notes}
	if err := h.storage.UpdateRepairOrder(r.Context(), &o); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, o)
}

func (h *Handler) listServiceItems(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	items, err := h.storage.ListServiceItems(r.Context(), orderID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, items)
}

type serviceItemRequest struct {
	Description   string `json:"description"`
	Quantity      int    `json:"quantity"`
	UnitPriceCent int64  `json:"unit_price_cents"`
}

func (h *Handler) addServiceItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	var req serviceItemRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if req.Description == "" || req.Quantity <= 0 {
		core.JSONError(w, core.NewHTTPError(http.StatusBadRequest, "Description and a positive quantity are required"))
		return
	}

	item := ServiceItem{
		RepairOrderID: orderID,
		Description:   req.Description,
		Quantity:      req.Quantity,
		UnitPriceCent: req.UnitPriceCent,
	}
	if err := h.storage.AddServiceItem(r.Context(), &item); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, item)
}

func (h *Handler) listServiceRecords(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	records, err := h.storage.ListServiceRecordsByVehicle(r.Context(), vehicleID)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, records)
}

type serviceRecordRequest struct {
	VehicleID     uuid.UUID  `json:"vehicle_id"`
	RepairOrderID *uuid.UUID `json:"repair_order_id"`
	Summary       string     `json:"summary"`
	Odometer      int        `json:"odometer"`
	PerformedAt   time.Time  `json:"performed_at"`
}

func (h *Handler) createServiceRecord(w http.ResponseWriter, r *http.Request) {
	var req serviceRecordRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.JSONError(w, err)
		return
	}
	if req.VehicleID == uuid.Nil || req.Summary == "" {
		core.JSONError(w, core.NewHTTPError(http.StatusBadRequest, "Vehicle id and summary are required"))
		return
	}

	rec := ServiceRecord{
		VehicleID:     req.VehicleID,
		RepairOrderID: req.RepairOrderID,
		Summary:       req.Summary,
		Odometer:      req.Odometer,
		PerformedAt:   req.PerformedAt,
	}
	if err := h.storage.CreateServiceRecord(r.Context(), &rec); err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusCreated, rec)
}

func (h *Handler) getServiceRecord(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	rec, err := h.storage.GetServiceRecord(r.Context(), id)
	if err != nil {
		writeStorageError(w, err)
		return
	}
	core.JSON(w, http.StatusOK, rec)
}
