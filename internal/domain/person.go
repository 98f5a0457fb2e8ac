package domain

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

type Customer struct {
	bun.BaseModel `bun:"table:customers"`

	ID         int64     `bun:"id,pk,autoincrement"`
	FirstName  string    `bun:"first_name,notnull"`
	LastName   string    `bun:"last_name,notnull"`
	Email      string    `bun:"email,notnull"`
	Phone      string    `bun:"phone"`
	AuthUserID string    `bun:"auth_user_id"`
	Active     bool      `bun:"active,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		if c.UpdatedAt.IsZero() {
			c.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		c.UpdatedAt = now
	}
	return nil
}

type Dentist struct {
	bun.BaseModel `bun:"table:dentists"`

	ID         int64     `bun:"id,pk,autoincrement"`
	FirstName  string    `bun:"first_name,notnull"`
	LastName   string    `bun:"last_name,notnull"`
	Email      string    `bun:"email,notnull"`
	Phone      string    `bun:"phone"`
	Specialty  string    `bun:"specialty"`
	AuthUserID string    `bun:"auth_user_id"`
	Active     bool      `bun:"active,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

func (d *Dentist) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

func (d *Dentist) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if d.CreatedAt.IsZero() {
			d.CreatedAt = now
		}
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		d.UpdatedAt = now
	}
	return nil
}
