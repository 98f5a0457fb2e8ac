package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/store"
)

type CustomerRepo struct {
	db *bun.DB
}

func NewCustomerRepo(db *bun.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	m := c
	m.ID = 0
	_, err := r.db.NewInsert().Model(&m).Returning("id", "created_at", "updated_at").Exec(ctx)
	if err != nil {
		return domain.Customer{}, mapPgError(err)
	}
	return m, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	var m domain.Customer
	err := r.db.NewSelect().Model(&m).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, store.ErrNotFound
		}
		return domain.Customer{}, err
	}
	return m, nil
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	var m domain.Customer
	err := r.db.NewSelect().Model(&m).Where("lower(email) = lower(?)", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, store.ErrNotFound
		}
		return domain.Customer{}, err
	}
	return m, nil
}

func (r *CustomerRepo) List(ctx context.Context, activeOnly bool) ([]domain.Customer, error) {
	rows := make([]domain.Customer, 0)
	q := r.db.NewSelect().Model(&rows)
	if activeOnly {
		q = q.Where("active")
	}
	if err := q.OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	m := c
	res, err := r.db.NewUpdate().
		Model(&m).
		WherePK().
		ExcludeColumn("created_at").
		Returning("updated_at").
		Exec(ctx)
	if err != nil {
		return domain.Customer{}, mapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Customer{}, err
	}
	if affected == 0 {
		return domain.Customer{}, store.ErrNotFound
	}
	return m, nil
}

func (r *CustomerRepo) SetAuthUserID(ctx context.Context, id int64, authUserID string) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Customer)(nil)).
		Set("auth_user_id = ?", authUserID).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *CustomerRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Customer)(nil)).
		Set("active = false").
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type DentistRepo struct {
	db *bun.DB
}

func NewDentistRepo(db *bun.DB) *DentistRepo {
	return &DentistRepo{db: db}
}

func (r *DentistRepo) Create(ctx context.Context, d domain.Dentist) (domain.Dentist, error) {
	m := d
	m.ID = 0
	_, err := r.db.NewInsert().Model(&m).Returning("id", "created_at", "updated_at").Exec(ctx)
	if err != nil {
		return domain.Dentist{}, mapPgError(err)
	}
	return m, nil
}

func (r *DentistRepo) GetByID(ctx context.Context, id int64) (domain.Dentist, error) {
	var m domain.Dentist
	err := r.db.NewSelect().Model(&m).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dentist{}, store.ErrNotFound
		}
		return domain.Dentist{}, err
	}
	return m, nil
}

func (r *DentistRepo) GetByEmail(ctx context.Context, email string) (domain.Dentist, error) {
	var m domain.Dentist
	err := r.db.NewSelect().Model(&m).Where("lower(email) = lower(?)", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Dentist{}, store.ErrNotFound
		}
		return domain.Dentist{}, err
	}
	return m, nil
}

func (r *DentistRepo) List(ctx context.Context, activeOnly bool) ([]domain.Dentist, error) {
	rows := make([]domain.Dentist, 0)
	q := r.db.NewSelect().Model(&rows)
	if activeOnly {
		q = q.Where("active")
	}
	if err := q.OrderExpr("id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *DentistRepo) Update(ctx context.Context, d domain.Dentist) (domain.Dentist, error) {
	m := d
	res, err := r.db.NewUpdate().
		Model(&m).
		WherePK().
		ExcludeColumn("created_at").
		Returning("updated_at").
		Exec(ctx)
	if err != nil {
		return domain.Dentist{}, mapPgError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Dentist{}, err
	}
	if affected == 0 {
		return domain.Dentist{}, store.ErrNotFound
	}
	return m, nil
}

func (r *DentistRepo) SetAuthUserID(ctx context.Context, id int64, authUserID string) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Dentist)(nil)).
		Set("auth_user_id = ?", authUserID).
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *DentistRepo) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Dentist)(nil)).
		Set("active = false").
		Set("updated_at = now()").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
