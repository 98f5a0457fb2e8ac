package appointments

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dentalo/backend/internal/domain"
	"dentalo/backend/internal/notify"
	"dentalo/backend/internal/schedule"
	"dentalo/backend/internal/store"
)

// Service is the only entry point allowed to mutate appointments. It runs
// calendar validation and conflict checks before every write and fires
// best-effort email notifications afterwards.
type Service struct {
	repo      store.AppointmentRepository
	customers store.CustomerRepository
	dentists  store.DentistRepository
	notifier  notify.Sender
	cal       schedule.Calendar
	log       *slog.Logger
	now       func() time.Time
}

func NewService(
	repo store.AppointmentRepository,
	customers store.CustomerRepository,
	dentists store.DentistRepository,
	notifier notify.Sender,
	log *slog.Logger,
) *Service {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:      repo,
		customers: customers,
		dentists:  dentists,
		notifier:  notifier,
		cal:       schedule.DefaultCalendar(),
		log:       log.With(slog.String("component", "service.appointments")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreateInput struct {
	CustomerID    int64
	DentistID     int64
	StartTime     time.Time
	ProcedureType string
	Notes         string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Appointment, error) {
	procedure := strings.TrimSpace(in.ProcedureType)
	if in.CustomerID <= 0 {
		return domain.Appointment{}, validationError("customer_id is required")
	}
	if in.DentistID <= 0 {
		return domain.Appointment{}, validationError("dentist_id is required")
	}
	if procedure == "" {
		return domain.Appointment{}, validationError("procedure_type is required")
	}

	start := in.StartTime.UTC()
	if err := s.cal.Validate(start, s.now()); err != nil {
		return domain.Appointment{}, validationError(err.Error())
	}

	customer, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, validationError("customer not found")
		}
		return domain.Appointment{}, err
	}
	if !customer.Active {
		return domain.Appointment{}, validationError("customer is not active")
	}

	dentist, err := s.dentists.GetByID(ctx, in.DentistID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Appointment{}, validationError("dentist not found")
		}
		return domain.Appointment{}, err
	}
	if !dentist.Active {
		return domain.Appointment{}, validationError("dentist is not active")
	}

	if err := s.checkConflicts(ctx, in.CustomerID, in.DentistID, start, 0); err != nil {
		return domain.Appointment{}, err
	}

	created, err := s.repo.Create(ctx, domain.Appointment{
		CustomerID:    in.CustomerID,
		DentistID:     in.DentistID,
		StartTime:     start,
		ProcedureType: procedure,
		Notes:         in.Notes,
		Status:        domain.StatusScheduled,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Appointment{}, conflictError("the requested time slot is no longer available")
		}
		return domain.Appointment{}, err
	}

	if err := s.notifier.SendAppointmentConfirmation(ctx, customer.Email, customer.FullName(), dentist.FullName(), created.StartTime, created.ProcedureType); err != nil {
		s.log.Warn("confirmation email failed",
			slog.Any("err", err),
			slog.Int64("appointment_id", created.ID),
			slog.Int64("customer_id", created.CustomerID),
		)
	}

	return created, nil
}

type UpdateInput struct {
	CustomerID    int64
	DentistID     int64
	StartTime     time.Time
	ProcedureType string
	Notes         string
}

// Update applies field changes to an existing appointment. The calendar and
// conflict rules only re-run when the start time actually changed, and the
// appointment's own id is excluded so it cannot conflict with itself.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (domain.Appointment, error) {
	procedure := strings.TrimSpace(in.ProcedureType)
	if in.CustomerID <= 0 {
		return domain.Appointment{}, validationError("customer_id is required")
	}
	if in.DentistID <= 0 {
		return domain.Appointment{}, validationError("dentist_id is required")
	}
	if procedure == "" {
		return domain.Appointment{}, validationError("procedure_type is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	start := in.StartTime.UTC()
	if !start.Equal(existing.StartTime) {
		if err := s.cal.Validate(start, s.now()); err != nil {
			return domain.Appointment{}, validationError(err.Error())
		}
		if err := s.checkConflicts(ctx, in.CustomerID, in.DentistID, start, id); err != nil {
			return domain.Appointment{}, err
		}
	}

	existing.CustomerID = in.CustomerID
	existing.DentistID = in.DentistID
	existing.StartTime = start
	existing.ProcedureType = procedure
	existing.Notes = in.Notes

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Appointment{}, conflictError("the requested time slot is no longer available")
		}
		return domain.Appointment{}, err
	}
	return updated, nil
}

// UpdateStatus overwrites the status without checking the transition table.
// Cancel, Complete and RequestCancellation enforce their own rules; this is
// the front-desk override path and only requires a known status value.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus, reason string) (domain.Appointment, error) {
	if !status.Valid() {
		return domain.Appointment{}, validationError("invalid status")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}

	s.log.Info("status overridden",
		slog.Int64("appointment_id", id),
		slog.String("from", string(existing.Status)),
		slog.String("to", string(status)),
		slog.String("reason", reason),
	)

	existing.Status = status
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		// Reviving a cancelled appointment can collide with a booking that
		// took the slot in the meantime.
		if errors.Is(err, store.ErrConflict) {
			return domain.Appointment{}, conflictError("the requested time slot is no longer available")
		}
		return domain.Appointment{}, err
	}
	return updated, nil
}

// RequestCancellation lets a customer flag their own scheduled appointment
// for cancellation; an operator later confirms via Cancel.
func (s *Service) RequestCancellation(ctx context.Context, id, requestingCustomerID int64) (domain.Appointment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if existing.CustomerID != requestingCustomerID {
		return domain.Appointment{}, stateError("you can only cancel your own appointments")
	}
	if existing.Status != domain.StatusScheduled {
		return domain.Appointment{}, stateError("only scheduled appointments can be cancelled")
	}

	existing.Status = domain.StatusCancellationRequested
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Appointment{}, conflictError("the requested time slot is no longer available")
		}
		return domain.Appointment{}, err
	}
	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, id int64) (domain.Appointment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if existing.Status == domain.StatusCompleted {
		return domain.Appointment{}, stateError("cannot cancel completed appointments")
	}

	existing.Status = domain.StatusCancelled
	cancelled, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.Appointment{}, conflictError("the requested time slot is no longer available")
		}
		return domain.Appointment{}, err
	}

	customer, err := s.customers.GetByID(ctx, cancelled.CustomerID)
	if err != nil {
		s.log.Warn("cancellation email skipped, customer lookup failed",
			slog.Any("err", err),
			slog.Int64("appointment_id", cancelled.ID),
			slog.Int64("customer_id", cancelled.CustomerID),
		)
		return cancelled, nil
	}
	if err := s.notifier.SendAppointmentCancellation(ctx, customer.Email, customer.FullName(), cancelled.StartTime, cancelled.ProcedureType); err != nil {
		s.log.Warn("cancellation email failed",
			slog.Any("err", err),
			slog.Int64("appointment_id", cancelled.ID),
			slog.Int64("customer_id", cancelled.CustomerID),
		)
	}

	return cancelled, nil
}

func (s *Service) Complete(ctx context.Context, id int64) (domain.Appointment, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if existing.Status != domain.StatusScheduled {
		return domain.Appointment{}, stateError("only scheduled appointments can be completed")
	}

	existing.Status = domain.StatusCompleted
	return s.repo.Update(ctx, existing)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter store.ListFilter) ([]domain.Appointment, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError("invalid status")
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.To.After(filter.From) {
		return nil, validationError("to must be after from")
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Appointment, error) {
	if customerID <= 0 {
		return nil, validationError("customer_id is required")
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) ListByDentist(ctx context.Context, dentistID int64) ([]domain.Appointment, error) {
	if dentistID <= 0 {
		return nil, validationError("dentist_id is required")
	}
	return s.repo.ListByDentist(ctx, dentistID)
}

// Schedule returns every appointment starting within [from, to), the
// clinic-wide day or week view.
func (s *Service) Schedule(ctx context.Context, from, to time.Time) ([]domain.Appointment, error) {
	if !to.After(from) {
		return nil, validationError("to must be after from")
	}
	return s.repo.ListByDateRange(ctx, from.UTC(), to.UTC())
}

// AvailableSlots lists every free slot for a dentist between from and to.
func (s *Service) AvailableSlots(ctx context.Context, dentistID int64, from, to time.Time) ([]time.Time, error) {
	if dentistID <= 0 {
		return nil, validationError("dentist_id is required")
	}
	if !to.After(from) {
		return nil, validationError("to must be after from")
	}
	if _, err := s.dentists.GetByID(ctx, dentistID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, validationError("dentist not found")
		}
		return nil, err
	}
	return schedule.AvailableSlots(ctx, s.repo, s.cal, dentistID, from.UTC(), to.UTC())
}

func (s *Service) SlotAvailable(ctx context.Context, dentistID int64, at time.Time) (bool, error) {
	if dentistID <= 0 {
		return false, validationError("dentist_id is required")
	}
	return schedule.SlotAvailable(ctx, s.repo, s.cal, dentistID, at.UTC(), s.now())
}

func (s *Service) checkConflicts(ctx context.Context, customerID, dentistID int64, at time.Time, excludeID int64) error {
	busy, err := s.repo.HasCustomerConflict(ctx, customerID, at, excludeID)
	if err != nil {
		return err
	}
	if busy {
		return conflictError("customer already has an appointment at this time")
	}

	busy, err = s.repo.HasDentistConflict(ctx, dentistID, at, excludeID)
	if err != nil {
		return err
	}
	if busy {
		return conflictError("dentist already has an appointment at this time")
	}
	return nil
}
