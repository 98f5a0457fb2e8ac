package linking

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/store/memory"
)

func message(t *testing.T, ev AccountEvent) kafka.Message {
	t.Helper()
	payload, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return kafka.Message{Key: []byte(ev.EventID), Value: payload}
}

func TestHandle_LinksCustomerByEmail(t *testing.T) {
	customers := memory.NewCustomerRepo()
	dentists := memory.NewDentistRepo()

	created, err := customers.Create(context.Background(), domain.Customer{
		FirstName: "Ada", LastName: "Jensen", Email: "ada@example.com", Active: true,
	})
	if err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	linker := NewLinker(customers, dentists, nil)
	authID := uuid.NewString()

	ev := AccountEvent{
		EventID:    uuid.NewString(),
		EventType:  EventAccountRegistered,
		AuthUserID: authID,
		Email:      "ada@example.com",
		Role:       RoleCustomer,
	}
	if err := linker.Handle(context.Background(), message(t, ev)); err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	got, err := customers.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.AuthUserID != authID {
		t.Fatalf("auth_user_id = %q, want %q", got.AuthUserID, authID)
	}

	// Redelivery of the same event is a no-op.
	if err := linker.Handle(context.Background(), message(t, ev)); err != nil {
		t.Fatalf("redelivery error: %v", err)
	}
}

func TestHandle_LinksDentistByRole(t *testing.T) {
	customers := memory.NewCustomerRepo()
	dentists := memory.NewDentistRepo()

	created, err := dentists.Create(context.Background(), domain.Dentist{
		FirstName: "Bram", LastName: "Koster", Email: "bram@example.com", Active: true,
	})
	if err != nil {
		t.Fatalf("seed dentist: %v", err)
	}

	linker := NewLinker(customers, dentists, nil)
	authID := uuid.NewString()

	ev := AccountEvent{
		EventID:    uuid.NewString(),
		EventType:  EventAccountRegistered,
		AuthUserID: authID,
		Email:      "bram@example.com",
		Role:       RoleDentist,
	}
	if err := linker.Handle(context.Background(), message(t, ev)); err != nil {
		t.Fatalf("Handle error: %v", err)
	}

	got, err := dentists.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.AuthUserID != authID {
		t.Fatalf("auth_user_id = %q, want %q", got.AuthUserID, authID)
	}
}

func TestHandle_UnknownEmailIgnored(t *testing.T) {
	linker := NewLinker(memory.NewCustomerRepo(), memory.NewDentistRepo(), nil)

	ev := AccountEvent{
		EventID:    uuid.NewString(),
		EventType:  EventAccountRegistered,
		AuthUserID: uuid.NewString(),
		Email:      "stranger@example.com",
		Role:       RoleCustomer,
	}
	if err := linker.Handle(context.Background(), message(t, ev)); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
}

func TestHandle_OtherEventTypesIgnored(t *testing.T) {
	linker := NewLinker(memory.NewCustomerRepo(), memory.NewDentistRepo(), nil)

	ev := AccountEvent{
		EventID:   uuid.NewString(),
		EventType: "account.deleted",
		Email:     "ada@example.com",
	}
	if err := linker.Handle(context.Background(), message(t, ev)); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
}

func TestHandle_RejectsMalformedEvents(t *testing.T) {
	linker := NewLinker(memory.NewCustomerRepo(), memory.NewDentistRepo(), nil)

	if err := linker.Handle(context.Background(), kafka.Message{Value: []byte("{not json")}); err == nil {
		t.Fatalf("expected decode error")
	}

	ev := AccountEvent{EventID: uuid.NewString(), EventType: EventAccountRegistered}
	if err := linker.Handle(context.Background(), message(t, ev)); err == nil {
		t.Fatalf("expected error for missing fields")
	}
}
