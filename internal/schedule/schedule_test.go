package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

// 2026-03-02 is a Monday.
var (
	monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	now    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

type fakeChecker struct {
	busy map[int64]map[int64]bool // dentistID -> unix -> busy
	err  error
}

func (f *fakeChecker) HasCustomerConflict(ctx context.Context, customerID int64, at time.Time, excludeID int64) (bool, error) {
	return false, nil
}

func (f *fakeChecker) HasDentistConflict(ctx context.Context, dentistID int64, at time.Time, excludeID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.busy[dentistID][at.Unix()], nil
}

func markBusy(f *fakeChecker, dentistID int64, at time.Time) {
	if f.busy == nil {
		f.busy = map[int64]map[int64]bool{}
	}
	if f.busy[dentistID] == nil {
		f.busy[dentistID] = map[int64]bool{}
	}
	f.busy[dentistID][at.Unix()] = true
}

func TestCalendarValidate(t *testing.T) {
	cal := DefaultCalendar()

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{
			name:    "weekday within hours",
			at:      monday.Add(10 * time.Hour),
			wantErr: nil,
		},
		{
			name:    "opening slot",
			at:      monday.Add(8 * time.Hour),
			wantErr: nil,
		},
		{
			name:    "last slot before close",
			at:      monday.Add(17*time.Hour + 30*time.Minute),
			wantErr: nil,
		},
		{
			name:    "in the past",
			at:      now.AddDate(0, 0, -7).Add(10 * time.Hour),
			wantErr: ErrInPast,
		},
		{
			name:    "exactly now",
			at:      now,
			wantErr: ErrInPast,
		},
		{
			name:    "before opening",
			at:      monday.Add(7*time.Hour + 30*time.Minute),
			wantErr: ErrOutsideHours,
		},
		{
			name:    "at closing time",
			at:      monday.Add(18 * time.Hour),
			wantErr: ErrOutsideHours,
		},
		{
			name:    "late evening",
			at:      monday.Add(22 * time.Hour),
			wantErr: ErrOutsideHours,
		},
		{
			name:    "saturday",
			at:      monday.AddDate(0, 0, 5).Add(10 * time.Hour),
			wantErr: ErrWeekend,
		},
		{
			name:    "sunday",
			at:      monday.AddDate(0, 0, 6).Add(10 * time.Hour),
			wantErr: ErrWeekend,
		},
		{
			name:    "saturday out of hours reports hours first",
			at:      monday.AddDate(0, 0, 5).Add(6 * time.Hour),
			wantErr: ErrOutsideHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cal.Validate(tt.at, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate(%v) = %v, want %v", tt.at, err, tt.wantErr)
			}
		})
	}
}

func TestAvailableSlots_FullOpenDay(t *testing.T) {
	cal := DefaultCalendar()
	checker := &fakeChecker{}

	slots, err := AvailableSlots(context.Background(), checker, cal, 1, monday, monday.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}

	// 08:00-18:00 at 30 minutes is 20 slots.
	if len(slots) != 20 {
		t.Fatalf("slots = %d, want 20", len(slots))
	}
	if !slots[0].Equal(monday.Add(8 * time.Hour)) {
		t.Fatalf("first slot = %v, want %v", slots[0], monday.Add(8*time.Hour))
	}
	last := monday.Add(17*time.Hour + 30*time.Minute)
	if !slots[len(slots)-1].Equal(last) {
		t.Fatalf("last slot = %v, want %v", slots[len(slots)-1], last)
	}
}

func TestAvailableSlots_SkipsWeekends(t *testing.T) {
	cal := DefaultCalendar()
	checker := &fakeChecker{}

	friday := monday.AddDate(0, 0, 4)
	nextMonday := monday.AddDate(0, 0, 7)

	slots, err := AvailableSlots(context.Background(), checker, cal, 1, friday, nextMonday.Add(time.Hour))
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}

	// Friday and Monday only: two full days.
	if len(slots) != 40 {
		t.Fatalf("slots = %d, want 40", len(slots))
	}
	for _, s := range slots {
		if wd := s.Weekday(); wd == time.Saturday || wd == time.Sunday {
			t.Fatalf("weekend slot %v returned", s)
		}
	}
}

func TestAvailableSlots_ExcludesBusySlots(t *testing.T) {
	cal := DefaultCalendar()
	checker := &fakeChecker{}
	taken := monday.Add(10 * time.Hour)
	markBusy(checker, 1, taken)

	slots, err := AvailableSlots(context.Background(), checker, cal, 1, monday, monday.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 19 {
		t.Fatalf("slots = %d, want 19", len(slots))
	}
	for _, s := range slots {
		if s.Equal(taken) {
			t.Fatalf("busy slot %v returned", s)
		}
	}

	// A different dentist still sees the full day.
	slots, err = AvailableSlots(context.Background(), checker, cal, 2, monday, monday.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 20 {
		t.Fatalf("other dentist slots = %d, want 20", len(slots))
	}
}

func TestAvailableSlots_Idempotent(t *testing.T) {
	cal := DefaultCalendar()
	checker := &fakeChecker{}
	markBusy(checker, 1, monday.Add(9*time.Hour))

	first, err := AvailableSlots(context.Background(), checker, cal, 1, monday, monday.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	second, err := AvailableSlots(context.Background(), checker, cal, 1, monday, monday.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("slot %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestAvailableSlots_EmptyWindow(t *testing.T) {
	cal := DefaultCalendar()
	checker := &fakeChecker{}

	slots, err := AvailableSlots(context.Background(), checker, cal, 1, monday, monday)
	if err != nil {
		t.Fatalf("AvailableSlots error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("slots = %d, want 0", len(slots))
	}
}

func TestAvailableSlots_PropagatesCheckerError(t *testing.T) {
	cal := DefaultCalendar()
	wantErr := errors.New("db down")
	checker := &fakeChecker{err: wantErr}

	_, err := AvailableSlots(context.Background(), checker, cal, 1, monday, monday.Add(23*time.Hour))
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
}

func TestSlotAvailable(t *testing.T) {
	cal := DefaultCalendar()
	checker := &fakeChecker{}
	taken := monday.Add(10 * time.Hour)
	markBusy(checker, 1, taken)

	tests := []struct {
		name      string
		dentistID int64
		at        time.Time
		want      bool
	}{
		{name: "free weekday slot", dentistID: 1, at: monday.Add(9 * time.Hour), want: true},
		{name: "busy slot", dentistID: 1, at: taken, want: false},
		{name: "busy slot other dentist", dentistID: 2, at: taken, want: true},
		{name: "weekend", dentistID: 1, at: monday.AddDate(0, 0, 5).Add(10 * time.Hour), want: false},
		{name: "out of hours", dentistID: 1, at: monday.Add(19 * time.Hour), want: false},
		{name: "past", dentistID: 1, at: now.AddDate(0, 0, -1), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SlotAvailable(context.Background(), checker, cal, tt.dentistID, tt.at, now)
			if err != nil {
				t.Fatalf("SlotAvailable error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SlotAvailable(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
