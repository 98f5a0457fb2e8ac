package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"dentalo/backend/internal/store"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "unique violation becomes conflict",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "appointments_dentist_slot_key"},
			want: store.ErrConflict,
		},
		{
			name: "wrapped unique violation becomes conflict",
			err:  errors.Join(errors.New("insert failed"), &pgconn.PgError{Code: "23505"}),
			want: store.ErrConflict,
		},
		{
			name: "foreign key violation passes through",
			err:  &pgconn.PgError{Code: "23503"},
			want: nil,
		},
		{
			name: "plain error passes through",
			err:  errors.New("boom"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapPgError(tt.err)
			if tt.want != nil {
				if !errors.Is(got, tt.want) {
					t.Fatalf("mapPgError = %v, want %v", got, tt.want)
				}
				return
			}
			if !errors.Is(got, tt.err) {
				t.Fatalf("mapPgError = %v, want original %v", got, tt.err)
			}
		})
	}
}
