// Package linking consumes account events published by the external
// authentication service and stamps the auth user id onto the matching
// customer or dentist record. Stamping is idempotent, so duplicate
// deliveries are harmless.
package linking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"dentalo/backend/internal/store"
)

const (
	EventAccountRegistered = "account.registered"

	RoleCustomer = "customer"
	RoleDentist  = "dentist"
)

// AccountEvent is the payload published by the auth service on sign-up.
type AccountEvent struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	AuthUserID string `json:"auth_user_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

type Linker struct {
	customers store.CustomerRepository
	dentists  store.DentistRepository
	log       *slog.Logger
}

func NewLinker(customers store.CustomerRepository, dentists store.DentistRepository, log *slog.Logger) *Linker {
	if log == nil {
		log = slog.Default()
	}
	return &Linker{
		customers: customers,
		dentists:  dentists,
		log:       log.With(slog.String("component", "linking")),
	}
}

// Handle decodes an account event and links it to the person it belongs to.
// An email with no matching record is not an error: the account may belong
// to someone who never visited this clinic.
func (l *Linker) Handle(ctx context.Context, msg kafka.Message) error {
	var ev AccountEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return fmt.Errorf("decode account event: %w", err)
	}
	if ev.EventType != "" && ev.EventType != EventAccountRegistered {
		l.log.Debug("ignoring event", slog.String("event_type", ev.EventType))
		return nil
	}
	if ev.AuthUserID == "" || ev.Email == "" {
		return fmt.Errorf("account event %q missing auth_user_id or email", ev.EventID)
	}

	switch ev.Role {
	case RoleDentist:
		dentist, err := l.dentists.GetByEmail(ctx, ev.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				l.log.Info("no dentist for account", slog.String("event_id", ev.EventID))
				return nil
			}
			return err
		}
		if dentist.AuthUserID == ev.AuthUserID {
			return nil
		}
		if err := l.dentists.SetAuthUserID(ctx, dentist.ID, ev.AuthUserID); err != nil {
			return err
		}
		l.log.Info("dentist linked",
			slog.Int64("dentist_id", dentist.ID),
			slog.String("auth_user_id", ev.AuthUserID),
		)
	case RoleCustomer, "":
		customer, err := l.customers.GetByEmail(ctx, ev.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				l.log.Info("no customer for account", slog.String("event_id", ev.EventID))
				return nil
			}
			return err
		}
		if customer.AuthUserID == ev.AuthUserID {
			return nil
		}
		if err := l.customers.SetAuthUserID(ctx, customer.ID, ev.AuthUserID); err != nil {
			return err
		}
		l.log.Info("customer linked",
			slog.Int64("customer_id", customer.ID),
			slog.String("auth_user_id", ev.AuthUserID),
		)
	default:
		l.log.Debug("ignoring role", slog.String("role", ev.Role))
	}

	return nil
}

type ConsumerConfig struct {
	Brokers string
	GroupID string
	Topic   string
}

type Consumer struct {
	reader *kafka.Reader
	linker *Linker
	log    *slog.Logger
}

func NewConsumer(cfg ConsumerConfig, linker *Linker, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  splitBrokers(cfg.Brokers),
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader: reader,
		linker: linker,
		log:    log.With(slog.String("component", "linking.consumer")),
	}
}

// Run reads account events until the context is cancelled. Handler failures
// are logged and the loop moves on; the auth service republishes on its own
// schedule and linking is idempotent.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Error("kafka read error", slog.Any("err", err))
			time.Sleep(time.Second)
			continue
		}

		if err := c.linker.Handle(ctx, msg); err != nil {
			c.log.Error("account event handling failed",
				slog.Any("err", err),
				slog.String("key", string(msg.Key)),
			)
		}
	}
}

func splitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
