package store

import (
	"context"
	"time"

	"dentalo/backend/internal/domain"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// ListFilter narrows and pages List results. Zero values mean "no filter".
type ListFilter struct {
	CustomerID int64
	DentistID  int64
	From       time.Time
	To         time.Time
	Status     domain.AppointmentStatus
	Page       int
	PageSize   int
}

func (f ListFilter) Limit() int {
	switch {
	case f.PageSize <= 0:
		return DefaultPageSize
	case f.PageSize > MaxPageSize:
		return MaxPageSize
	}
	return f.PageSize
}

func (f ListFilter) Offset() int {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

type AppointmentRepository interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (domain.Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Appointment, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error)
	ListByDentist(ctx context.Context, dentistID int64) ([]domain.Appointment, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error)

	// Conflict checks match on the exact start time and ignore cancelled
	// appointments. excludeID > 0 leaves that appointment out of the check.
	HasCustomerConflict(ctx context.Context, customerID int64, at time.Time, excludeID int64) (bool, error)
	HasDentistConflict(ctx context.Context, dentistID int64, at time.Time, excludeID int64) (bool, error)

	Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	Delete(ctx context.Context, id int64) error
}
