package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

// The appointments table carries partial unique indexes on
// (customer_id, start_time) and (dentist_id, start_time) scoped to
// non-cancelled rows, so a double booking that slips past the service's
// conflict check still fails here and surfaces as store.ErrConflict.
func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	m.ID = 0

	_, err := r.db.NewInsert().Model(&m).Returning("id", "created_at", "updated_at").Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapPgError(err)
	}
	return m, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (domain.Appointment, error) {
	var m domain.Appointment
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return m, nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error) {
	rows := make([]domain.Appointment, 0)
	q := r.db.NewSelect().Model(&rows)

	if filter.CustomerID > 0 {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.DentistID > 0 {
		q = q.Where("dentist_id = ?", filter.DentistID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("start_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("start_time < ?", filter.To)
	}

	err := q.OrderExpr("start_time ASC, id ASC").
		Limit(filter.Limit()).
		Offset(filter.Offset()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	rows := make([]domain.Appointment, 0)
	err := r.db.NewSelect().
		Model(&rows).
		Where("customer_id = ?", customerID).
		OrderExpr("start_time ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListByDentist(ctx context.Context, dentistID int64) ([]domain.Appointment, error) {
	rows := make([]domain.Appointment, 0)
	err := r.db.NewSelect().
		Model(&rows).
		Where("dentist_id = ?", dentistID).
		OrderExpr("start_time ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	rows := make([]domain.Appointment, 0)
	err := r.db.NewSelect().
		Model(&rows).
		Where("start_time >= ?", from).
		Where("start_time < ?", to).
		OrderExpr("start_time ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) HasCustomerConflict(ctx context.Context, customerID int64, at time.Time, excludeID int64) (bool, error) {
	q := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("customer_id = ?", customerID).
		Where("start_time = ?", at).
		Where("status <> ?", domain.StatusCancelled)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q.Exists(ctx)
}

func (r *AppointmentRepo) HasDentistConflict(ctx context.Context, dentistID int64, at time.Time, excludeID int64) (bool, error) {
	q := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("dentist_id = ?", dentistID).
		Where("start_time = ?", at).
		Where("status <> ?", domain.StatusCancelled)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q.Exists(ctx)
}

func (r *AppointmentRepo) Update(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := r.db.NewUpdate().
		Model(&m).
		WherePK().
		ExcludeColumn("created_at").
		Returning("updated_at").
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrConflict
	}
	return err
}
