// Package rest exposes the appointment and registry services over HTTP.
// It binds and validates request payloads and maps service errors to status
// codes; all business rules live in the services.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/service/appointments"
	"dentalo/backend/internal/service/registry"
	"dentalo/backend/internal/store"
)

type appointmentsService interface {
	Create(ctx context.Context, in appointments.CreateInput) (domain.Appointment, error)
	Update(ctx context.Context, id int64, in appointments.UpdateInput) (domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason string) (domain.Appointment, error)
	RequestCancellation(ctx context.Context, id, requestingCustomerID int64) (domain.Appointment, error)
	Cancel(ctx context.Context, id int64) (domain.Appointment, error)
	Complete(ctx context.Context, id int64) (domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (domain.Appointment, error)
	List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error)
	Schedule(ctx context.Context, from, to time.Time) ([]domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	ListByDentist(ctx context.Context, dentistID int64) ([]domain.Appointment, error)
	AvailableSlots(ctx context.Context, dentistID int64, from, to time.Time) ([]time.Time, error)
	SlotAvailable(ctx context.Context, dentistID int64, at time.Time) (bool, error)
}

type registryService interface {
	CreateCustomer(ctx context.Context, in registry.CustomerInput) (domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (domain.Customer, error)
	ListCustomers(ctx context.Context, activeOnly bool) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in registry.CustomerInput) (domain.Customer, error)
	DeactivateCustomer(ctx context.Context, id int64) error
	CreateDentist(ctx context.Context, in registry.DentistInput) (domain.Dentist, error)
	GetDentist(ctx context.Context, id int64) (domain.Dentist, error)
	ListDentists(ctx context.Context, activeOnly bool) ([]domain.Dentist, error)
	UpdateDentist(ctx context.Context, id int64, in registry.DentistInput) (domain.Dentist, error)
	DeactivateDentist(ctx context.Context, id int64) error
}

type Server struct {
	appts    appointmentsService
	registry registryService
	val      *validator.Validate
	log      *slog.Logger
}

func NewServer(appts appointmentsService, reg registryService, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		appts:    appts,
		registry: reg,
		val:      validator.New(),
		log:      log.With(slog.String("component", "rest")),
	}
}

func (s *Server) Register(r gin.IRouter) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	api.POST("/appointments", s.createAppointment)
	api.GET("/appointments", s.listAppointments)
	api.GET("/appointments/:id", s.getAppointment)
	api.PUT("/appointments/:id", s.updateAppointment)
	api.DELETE("/appointments/:id", s.deleteAppointment)
	api.PATCH("/appointments/:id/status", s.updateAppointmentStatus)
	api.POST("/appointments/:id/request-cancellation", s.requestCancellation)
	api.POST("/appointments/:id/cancel", s.cancelAppointment)
	api.POST("/appointments/:id/complete", s.completeAppointment)

	api.GET("/schedule", s.schedule)
	api.GET("/slots", s.availableSlots)
	api.GET("/slots/check", s.checkSlot)

	api.POST("/customers", s.createCustomer)
	api.GET("/customers", s.listCustomers)
	api.GET("/customers/:id", s.getCustomer)
	api.PUT("/customers/:id", s.updateCustomer)
	api.DELETE("/customers/:id", s.deactivateCustomer)
	api.GET("/customers/:id/appointments", s.customerAppointments)

	api.POST("/dentists", s.createDentist)
	api.GET("/dentists", s.listDentists)
	api.GET("/dentists/:id", s.getDentist)
	api.PUT("/dentists/:id", s.updateDentist)
	api.DELETE("/dentists/:id", s.deactivateDentist)
	api.GET("/dentists/:id/appointments", s.dentistAppointments)
	api.GET("/dentists/:id/slots", s.dentistSlots)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps service error types to HTTP status codes. Everything
// unrecognized is treated as an infrastructure failure and hidden behind a
// generic 500.
func (s *Server) writeError(c *gin.Context, err error) {
	var (
		apptValidation *appointments.ValidationError
		regValidation  *registry.ValidationError
		conflict       *appointments.ConflictError
		state          *appointments.StateError
	)

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &apptValidation), errors.As(err, &regValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.As(err, &state):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		s.log.Error("request failed",
			slog.Any("err", err),
			slog.String("path", c.FullPath()),
		)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := s.val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := parseInt64(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "id must be a positive integer"})
		return 0, false
	}
	return id, true
}
