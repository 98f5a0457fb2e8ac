package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/store"
)

type CustomerRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Customer
}

func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{rows: make(map[int64]domain.Customer)}
}

func (r *CustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if strings.EqualFold(row.Email, c.Email) {
			return domain.Customer{}, store.ErrConflict
		}
	}

	now := time.Now().UTC()
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = now
	c.UpdatedAt = now
	r.rows[c.ID] = c
	return c, nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok {
		return domain.Customer{}, store.ErrNotFound
	}
	return c, nil
}

func (r *CustomerRepo) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.rows {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return domain.Customer{}, store.ErrNotFound
}

func (r *CustomerRepo) List(ctx context.Context, activeOnly bool) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Customer, 0, len(r.rows))
	for _, c := range r.rows {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *CustomerRepo) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[c.ID]
	if !ok {
		return domain.Customer{}, store.ErrNotFound
	}
	for _, row := range r.rows {
		if row.ID != c.ID && strings.EqualFold(row.Email, c.Email) {
			return domain.Customer{}, store.ErrConflict
		}
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	r.rows[c.ID] = c
	return c, nil
}

func (r *CustomerRepo) SetAuthUserID(ctx context.Context, id int64, authUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	c.AuthUserID = authUserID
	c.UpdatedAt = time.Now().UTC()
	r.rows[id] = c
	return nil
}

func (r *CustomerRepo) Deactivate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	c.Active = false
	c.UpdatedAt = time.Now().UTC()
	r.rows[id] = c
	return nil
}

type DentistRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Dentist
}

func NewDentistRepo() *DentistRepo {
	return &DentistRepo{rows: make(map[int64]domain.Dentist)}
}

func (r *DentistRepo) Create(ctx context.Context, d domain.Dentist) (domain.Dentist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if strings.EqualFold(row.Email, d.Email) {
			return domain.Dentist{}, store.ErrConflict
		}
	}

	now := time.Now().UTC()
	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = now
	d.UpdatedAt = now
	r.rows[d.ID] = d
	return d, nil
}

func (r *DentistRepo) GetByID(ctx context.Context, id int64) (domain.Dentist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.rows[id]
	if !ok {
		return domain.Dentist{}, store.ErrNotFound
	}
	return d, nil
}

func (r *DentistRepo) GetByEmail(ctx context.Context, email string) (domain.Dentist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.rows {
		if strings.EqualFold(d.Email, email) {
			return d, nil
		}
	}
	return domain.Dentist{}, store.ErrNotFound
}

func (r *DentistRepo) List(ctx context.Context, activeOnly bool) ([]domain.Dentist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Dentist, 0, len(r.rows))
	for _, d := range r.rows {
		if activeOnly && !d.Active {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *DentistRepo) Update(ctx context.Context, d domain.Dentist) (domain.Dentist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rows[d.ID]
	if !ok {
		return domain.Dentist{}, store.ErrNotFound
	}
	for _, row := range r.rows {
		if row.ID != d.ID && strings.EqualFold(row.Email, d.Email) {
			return domain.Dentist{}, store.ErrConflict
		}
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	r.rows[d.ID] = d
	return d, nil
}

func (r *DentistRepo) SetAuthUserID(ctx context.Context, id int64, authUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	d.AuthUserID = authUserID
	d.UpdatedAt = time.Now().UTC()
	r.rows[id] = d
	return nil
}

func (r *DentistRepo) Deactivate(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.rows[id]
	if !ok {
		return store.ErrNotFound
	}
	d.Active = false
	d.UpdatedAt = time.Now().UTC()
	r.rows[id] = d
	return nil
}
