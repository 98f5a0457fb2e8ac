// Package memory provides in-process repository implementations with the
// same conflict semantics as the postgres ones. Used by tests and for
// running the server without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/store"
)

type AppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Appointment
}

func NewAppointmentRepo() *AppointmentRepo {
	return &AppointmentRepo{rows: make(map[int64]domain.Appointment)}
}

func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if appt.Status == "" {
		appt.Status = domain.StatusScheduled
	}
	if appt.Status != domain.StatusCancelled {
		for _, row := range r.rows {
			if row.Status == domain.StatusCancelled || !row.StartTime.Equal(appt.StartTime) {
				continue
			}
			if row.CustomerID == appt.CustomerID || row.DentistID == appt.DentistID {
				return domain.Appointment{}, store.ErrConflict
			}
		}
	}

	now := time.Now().UTC()
	r.nextID++
	appt.ID = r.nextID
	appt.CreatedAt = now
	appt.UpdatedAt = now
	r.rows[appt.ID] = appt
	return appt, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt, ok := r.rows[id]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}
	return appt, nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := r.collect(func(a domain.Appointment) bool {
		if filter.CustomerID > 0 && a.CustomerID != filter.CustomerID {
			return false
		}
		if filter.DentistID > 0 && a.DentistID != filter.DentistID {
			return false
		}
		if filter.Status != "" && a.Status != filter.Status {
			return false
		}
		if !filter.From.IsZero() && a.StartTime.Before(filter.From) {
			return false
		}
		if !filter.To.IsZero() && !a.StartTime.Before(filter.To) {
			return false
		}
		return true
	})

	offset := filter.Offset()
	if offset >= len(matched) {
		return []domain.Appointment{}, nil
	}
	end := offset + filter.Limit()
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *AppointmentRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(a domain.Appointment) bool { return a.CustomerID == customerID }), nil
}

func (r *AppointmentRepo) ListByDentist(ctx context.Context, dentistID int64) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(a domain.Appointment) bool { return a.DentistID == dentistID }), nil
}

func (r *AppointmentRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(a domain.Appointment) bool {
		return !a.StartTime.Before(from) && a.StartTime.Before(to)
	}), nil
}

func (r *AppointmentRepo) HasCustomerConflict(ctx context.Context, customerID int64, at time.Time, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.rows {
		if a.ID == excludeID || a.Status == domain.StatusCancelled {
			continue
		}
		if a.CustomerID == customerID && a.StartTime.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AppointmentRepo) HasDentistConflict(ctx context.Context, dentistID int64, at time.Time, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.rows {
		if a.ID == excludeID || a.Status == domain.StatusCancelled {
			continue
		}
		if a.DentistID == dentistID && a.StartTime.Equal(at) {
			return true, nil
		}
	}
	return false, nil
}

func (r *AppointmentRepo) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[appt.ID]
	if !ok {
		return domain.Appointment{}, store.ErrNotFound
	}

	if appt.Status != domain.StatusCancelled {
		for _, row := range r.rows {
			if row.ID == appt.ID || row.Status == domain.StatusCancelled || !row.StartTime.Equal(appt.StartTime) {
				continue
			}
			if row.CustomerID == appt.CustomerID || row.DentistID == appt.DentistID {
				return domain.Appointment{}, store.ErrConflict
			}
		}
	}

	appt.CreatedAt = existing.CreatedAt
	appt.UpdatedAt = time.Now().UTC()
	r.rows[appt.ID] = appt
	return appt, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

// collect returns matching rows ordered by start time. Callers must hold mu.
func (r *AppointmentRepo) collect(match func(domain.Appointment) bool) []domain.Appointment {
	out := make([]domain.Appointment, 0)
	for _, a := range r.rows {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
