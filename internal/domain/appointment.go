package domain

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	StatusScheduled             AppointmentStatus = "scheduled"
	StatusCompleted             AppointmentStatus = "completed"
	StatusCancelled             AppointmentStatus = "cancelled"
	StatusCancellationRequested AppointmentStatus = "cancellation_requested"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusCancellationRequested:
		return true
	}
	return false
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID            int64             `bun:"id,pk,autoincrement"`
	CustomerID    int64             `bun:"customer_id,notnull"`
	DentistID     int64             `bun:"dentist_id,notnull"`
	StartTime     time.Time         `bun:"start_time,notnull"`
	ProcedureType string            `bun:"procedure_type,notnull"`
	Notes         string            `bun:"notes"`
	Status        AppointmentStatus `bun:"status,notnull"`
	CreatedAt     time.Time         `bun:"created_at,notnull"`
	UpdatedAt     time.Time         `bun:"updated_at,notnull"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.Status == "" {
			a.Status = StatusScheduled
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
