package rest

import (
	"strconv"
	"time"

	"dentalo/backend/internal/domain"
)

type createAppointmentRequest struct {
	CustomerID    int64     `json:"customer_id" validate:"required,gt=0"`
	DentistID     int64     `json:"dentist_id" validate:"required,gt=0"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	ProcedureType string    `json:"procedure_type" validate:"required"`
	Notes         string    `json:"notes"`
}

type updateAppointmentRequest struct {
	CustomerID    int64     `json:"customer_id" validate:"required,gt=0"`
	DentistID     int64     `json:"dentist_id" validate:"required,gt=0"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	ProcedureType string    `json:"procedure_type" validate:"required"`
	Notes         string    `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type requestCancellationRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
}

type personRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

type appointmentResponse struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customer_id"`
	DentistID     int64     `json:"dentist_id"`
	StartTime     time.Time `json:"start_time"`
	ProcedureType string    `json:"procedure_type"`
	Notes         string    `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toAppointmentResponse(a domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:            a.ID,
		CustomerID:    a.CustomerID,
		DentistID:     a.DentistID,
		StartTime:     a.StartTime,
		ProcedureType: a.ProcedureType,
		Notes:         a.Notes,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func toAppointmentResponses(appts []domain.Appointment) []appointmentResponse {
	out := make([]appointmentResponse, 0, len(appts))
	for _, a := range appts {
		out = append(out, toAppointmentResponse(a))
	}
	return out
}

type customerResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	Linked    bool      `json:"linked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCustomerResponse(c domain.Customer) customerResponse {
	return customerResponse{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Active:    c.Active,
		Linked:    c.AuthUserID != "",
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type dentistResponse struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty"`
	Active    bool      `json:"active"`
	Linked    bool      `json:"linked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDentistResponse(d domain.Dentist) dentistResponse {
	return dentistResponse{
		ID:        d.ID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Email:     d.Email,
		Phone:     d.Phone,
		Specialty: d.Specialty,
		Active:    d.Active,
		Linked:    d.AuthUserID != "",
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type slotsResponse struct {
	DentistID int64       `json:"dentist_id"`
	Slots     []time.Time `json:"slots"`
}

func parseInt64(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
