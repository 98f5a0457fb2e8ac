package store

import (
	"context"

	"dentalo/backend/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id int64) (domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (domain.Customer, error)
	SetAuthUserID(ctx context.Context, id int64, authUserID string) error
	Deactivate(ctx context.Context, id int64) error
}

type DentistRepository interface {
	Create(ctx context.Context, d domain.Dentist) (domain.Dentist, error)
	GetByID(ctx context.Context, id int64) (domain.Dentist, error)
	GetByEmail(ctx context.Context, email string) (domain.Dentist, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Dentist, error)
	Update(ctx context.Context, d domain.Dentist) (domain.Dentist, error)
	SetAuthUserID(ctx context.Context, id int64, authUserID string) error
	Deactivate(ctx context.Context, id int64) error
}
