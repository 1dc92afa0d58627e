package usecase

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"studio-booking/internal/data/entity"
)

// DefaultDurationHours applies to bookings stored without a positive duration
const DefaultDurationHours = 1.0

// Interval is the half-open range [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps is symmetric, and intervals that only touch at an endpoint do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ParseClock reads a 24h "HH:MM" wall-clock time
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("time %q must be HH:MM", s)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("time %q has an invalid hour", s)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q has an invalid minute", s)
	}

	return hour, minute, nil
}

// Day truncates t to midnight of its calendar date in loc
func Day(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// IntervalAt anchors clock on day and extends it by hours. The end may fall on the next day.
// Both ends are wall-clock times in day's location, so a 2h booking at 01:00 ends at 03:00
// even across a DST change.
func IntervalAt(day time.Time, clock string, hours float64) (Interval, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return Interval{}, err
	}

	y, m, d := day.Date()
	loc := day.Location()
	return Interval{
		Start: time.Date(y, m, d, hour, minute, 0, 0, loc),
		End:   time.Date(y, m, d, hour, minute, 0, int(hoursToDuration(hours)), loc),
	}, nil
}

// EffectiveDuration returns the stored duration or the one-hour default
func EffectiveDuration(hours *float64) float64 {
	if hours == nil || *hours <= 0 {
		return DefaultDurationHours
	}
	return *hours
}

// BookingInterval is the time a booking occupies on day. ok is false for bookings
// that cannot occupy time: no start time or an unreadable one.
func BookingInterval(day time.Time, b *entity.Booking) (Interval, bool) {
	if b.EventTime == nil || strings.TrimSpace(*b.EventTime) == "" {
		return Interval{}, false
	}
	iv, err := IntervalAt(day, *b.EventTime, EffectiveDuration(b.Duration))
	if err != nil {
		return Interval{}, false
	}
	return iv, true
}

// FindConflicts returns the active bookings in snapshot that overlap candidate, in snapshot order.
// The snapshot is expected to hold the bookings of a single calendar day.
func FindConflicts(candidate Interval, day time.Time, snapshot []*entity.Booking) []*entity.Booking {
	conflicts := make([]*entity.Booking, 0)
	for _, b := range snapshot {
		if !b.Status.IsActive() {
			continue
		}
		iv, ok := BookingInterval(day, b)
		if !ok {
			continue
		}
		if candidate.Overlaps(iv) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

// SlotWindow is the range of start times offered on a day, both ends inclusive
type SlotWindow struct {
	FirstStart string
	LastStart  string
	Step       time.Duration
}

// DefaultSlotWindow offers hourly starts from 08:00 through 21:00
var DefaultSlotWindow = SlotWindow{FirstStart: "08:00", LastStart: "21:00", Step: time.Hour}

func (w SlotWindow) Validate() error {
	fh, fm, err := ParseClock(w.FirstStart)
	if err != nil {
		return err
	}
	lh, lm, err := ParseClock(w.LastStart)
	if err != nil {
		return err
	}
	if lh*60+lm < fh*60+fm {
		return fmt.Errorf("last slot %s is before first slot %s", w.LastStart, w.FirstStart)
	}
	if w.Step <= 0 {
		return fmt.Errorf("slot step must be positive")
	}
	return nil
}

// Candidates lists every start time in the window as "HH:MM"
func (w SlotWindow) Candidates() []string {
	fh, fm, err := ParseClock(w.FirstStart)
	if err != nil {
		return nil
	}
	lh, lm, err := ParseClock(w.LastStart)
	if err != nil || w.Step <= 0 {
		return nil
	}

	first := time.Duration(fh)*time.Hour + time.Duration(fm)*time.Minute
	last := time.Duration(lh)*time.Hour + time.Duration(lm)*time.Minute

	var slots []string
	for at := first; at <= last; at += w.Step {
		slots = append(slots, fmt.Sprintf("%02d:%02d", int(at/time.Hour), int(at%time.Hour/time.Minute)))
	}
	return slots
}

// AvailableSlots returns, in ascending order, the window's start times at which a booking
// of hours length overlaps nothing in snapshot. Late slots may run past midnight.
func AvailableSlots(day time.Time, hours float64, window SlotWindow, snapshot []*entity.Booking) []string {
	if hours <= 0 {
		hours = DefaultDurationHours
	}

	occupied := make([]Interval, 0, len(snapshot))
	for _, b := range snapshot {
		if !b.Status.IsActive() {
			continue
		}
		if iv, ok := BookingInterval(day, b); ok {
			occupied = append(occupied, iv)
		}
	}

	available := make([]string, 0)
	for _, slot := range window.Candidates() {
		candidate, err := IntervalAt(day, slot, hours)
		if err != nil {
			continue
		}
		free := true
		for _, iv := range occupied {
			if candidate.Overlaps(iv) {
				free = false
				break
			}
		}
		if free {
			available = append(available, slot)
		}
	}
	return available
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
