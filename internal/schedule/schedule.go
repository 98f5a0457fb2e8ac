// Package schedule holds the clinic's business-calendar rules and the
// availability computation. It is pure logic: conflict lookups go through
// the ConflictChecker interface so the rules stay testable without a
// database.
package schedule

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInPast       = errors.New("appointments cannot be scheduled in the past")
	ErrOutsideHours = errors.New("appointments must be scheduled within business hours (08:00-18:00)")
	ErrWeekend      = errors.New("appointments cannot be scheduled on weekends")
)

// ConflictChecker answers whether a non-cancelled appointment already
// occupies the exact start time for a customer or dentist. excludeID > 0
// leaves that appointment out of the check so an update does not conflict
// with itself.
type ConflictChecker interface {
	HasCustomerConflict(ctx context.Context, customerID int64, at time.Time, excludeID int64) (bool, error)
	HasDentistConflict(ctx context.Context, dentistID int64, at time.Time, excludeID int64) (bool, error)
}

// Calendar is the clinic's fixed business calendar: open weekdays from
// OpenHour to CloseHour, appointments on Slot boundaries.
type Calendar struct {
	OpenHour  int
	CloseHour int
	Slot      time.Duration
}

func DefaultCalendar() Calendar {
	return Calendar{
		OpenHour:  8,
		CloseHour: 18,
		Slot:      30 * time.Minute,
	}
}

// Validate checks a proposed appointment time against the calendar. The
// first failing rule wins: past, then business hours, then weekend.
func (c Calendar) Validate(at, now time.Time) error {
	if !at.After(now) {
		return ErrInPast
	}
	if !c.withinHours(at) {
		return ErrOutsideHours
	}
	if isWeekend(at) {
		return ErrWeekend
	}
	return nil
}

func (c Calendar) withinHours(at time.Time) bool {
	open := time.Duration(c.OpenHour) * time.Hour
	close := time.Duration(c.CloseHour) * time.Hour
	tod := time.Duration(at.Hour())*time.Hour +
		time.Duration(at.Minute())*time.Minute +
		time.Duration(at.Second())*time.Second
	return tod >= open && tod < close
}

func isWeekend(at time.Time) bool {
	wd := at.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// AvailableSlots walks every slot from the start of `from`'s day at opening
// time through the end of `to`'s day, skipping weekends and out-of-hours
// slots, and returns the start times where the dentist has no conflicting
// appointment. The result is recomputed on every call.
func AvailableSlots(ctx context.Context, checker ConflictChecker, cal Calendar, dentistID int64, from, to time.Time) ([]time.Time, error) {
	if !to.After(from) {
		return nil, nil
	}

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	lastDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, to.Location())

	var slots []time.Time
	for ; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
		if isWeekend(day) {
			continue
		}
		open := day.Add(time.Duration(cal.OpenHour) * time.Hour)
		close := day.Add(time.Duration(cal.CloseHour) * time.Hour)
		for t := open; t.Before(close); t = t.Add(cal.Slot) {
			busy, err := checker.HasDentistConflict(ctx, dentistID, t, 0)
			if err != nil {
				return nil, err
			}
			if !busy {
				slots = append(slots, t)
			}
		}
	}
	return slots, nil
}

// SlotAvailable reports whether a single slot passes calendar validation
// and is free for the dentist.
func SlotAvailable(ctx context.Context, checker ConflictChecker, cal Calendar, dentistID int64, at, now time.Time) (bool, error) {
	if err := cal.Validate(at, now); err != nil {
		return false, nil
	}
	busy, err := checker.HasDentistConflict(ctx, dentistID, at, 0)
	if err != nil {
		return false, err
	}
	return !busy, nil
}
