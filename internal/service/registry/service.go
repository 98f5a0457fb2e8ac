// Package registry manages the clinic's customer and dentist records.
package registry

import (
	"context"
	"errors"
	"strings"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	customers store.CustomerRepository
	dentists  store.DentistRepository
}

func NewService(customers store.CustomerRepository, dentists store.DentistRepository) *Service {
	return &Service{customers: customers, dentists: dentists}
}

type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

func (in CustomerInput) validate() (CustomerInput, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)

	if in.FirstName == "" {
		return in, validationError("first_name is required")
	}
	if in.LastName == "" {
		return in, validationError("last_name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return in, validationError("a valid email is required")
	}
	return in, nil
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (domain.Customer, error) {
	in, err := in.validate()
	if err != nil {
		return domain.Customer{}, err
	}

	created, err := s.customers.Create(ctx, domain.Customer{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Active:    true,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Customer{}, validationError("a customer with this email already exists")
		}
		return domain.Customer{}, err
	}
	return created, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	if id <= 0 {
		return domain.Customer{}, validationError("customer_id is required")
	}
	return s.customers.GetByID(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, activeOnly bool) ([]domain.Customer, error) {
	return s.customers.List(ctx, activeOnly)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, in CustomerInput) (domain.Customer, error) {
	in, err := in.validate()
	if err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Email = in.Email
	existing.Phone = in.Phone

	updated, err := s.customers.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Customer{}, validationError("a customer with this email already exists")
		}
		return domain.Customer{}, err
	}
	return updated, nil
}

// DeactivateCustomer retires the record instead of deleting it, so past
// appointments keep a valid reference.
func (s *Service) DeactivateCustomer(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationError("customer_id is required")
	}
	return s.customers.Deactivate(ctx, id)
}

type DentistInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Specialty string
}

func (in DentistInput) validate() (DentistInput, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Specialty = strings.TrimSpace(in.Specialty)

	if in.FirstName == "" {
		return in, validationError("first_name is required")
	}
	if in.LastName == "" {
		return in, validationError("last_name is required")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return in, validationError("a valid email is required")
	}
	return in, nil
}

func (s *Service) CreateDentist(ctx context.Context, in DentistInput) (domain.Dentist, error) {
	in, err := in.validate()
	if err != nil {
		return domain.Dentist{}, err
	}

	created, err := s.dentists.Create(ctx, domain.Dentist{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		Specialty: in.Specialty,
		Active:    true,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Dentist{}, validationError("a dentist with this email already exists")
		}
		return domain.Dentist{}, err
	}
	return created, nil
}

func (s *Service) GetDentist(ctx context.Context, id int64) (domain.Dentist, error) {
	if id <= 0 {
		return domain.Dentist{}, validationError("dentist_id is required")
	}
	return s.dentists.GetByID(ctx, id)
}

func (s *Service) ListDentists(ctx context.Context, activeOnly bool) ([]domain.Dentist, error) {
	return s.dentists.List(ctx, activeOnly)
}

func (s *Service) UpdateDentist(ctx context.Context, id int64, in DentistInput) (domain.Dentist, error) {
	in, err := in.validate()
	if err != nil {
		return domain.Dentist{}, err
	}

	existing, err := s.dentists.GetByID(ctx, id)
	if err != nil {
		return domain.Dentist{}, err
	}

	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.Specialty = in.Specialty

	updated, err := s.dentists.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Dentist{}, validationError("a dentist with this email already exists")
		}
		return domain.Dentist{}, err
	}
	return updated, nil
}

func (s *Service) DeactivateDentist(ctx context.Context, id int64) error {
	if id <= 0 {
		return validationError("dentist_id is required")
	}
	return s.dentists.Deactivate(ctx, id)
}
