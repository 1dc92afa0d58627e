package usecase

import (
	"testing"
	"time"
	_ "time/tzdata"

	"studio-booking/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

func mustInterval(t *testing.T, clock string, hours float64) Interval {
	t.Helper()
	iv, err := IntervalAt(testDay, clock, hours)
	require.NoError(t, err)
	return iv
}

func TestInterval_OverlapIsSymmetric(t *testing.T) {
	cases := []struct {
		a, b    Interval
		overlap bool
	}{
		{mustInterval(t, "10:00", 2), mustInterval(t, "11:00", 1), true},
		{mustInterval(t, "10:00", 2), mustInterval(t, "12:00", 1), false},
		{mustInterval(t, "09:30", 0.5), mustInterval(t, "09:45", 3), true},
		{mustInterval(t, "08:00", 1), mustInterval(t, "20:00", 1), false},
		{mustInterval(t, "10:00", 4), mustInterval(t, "11:00", 1), true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.overlap, tc.a.Overlaps(tc.b))
		assert.Equal(t, tc.a.Overlaps(tc.b), tc.b.Overlaps(tc.a))
	}
}

func TestFindConflicts_AdjacentBookingsDoNotConflict(t *testing.T) {
	existing := booking("10:00", 2, entity.BookingStatusConfirmed)

	got := FindConflicts(mustInterval(t, "12:00", 1), testDay, []*entity.Booking{existing})
	assert.Empty(t, got)

	got = FindConflicts(mustInterval(t, "09:00", 1), testDay, []*entity.Booking{existing})
	assert.Empty(t, got)
}

func TestFindConflicts_TrueOverlapDetected(t *testing.T) {
	existing := booking("10:00", 2, entity.BookingStatusPending)

	got := FindConflicts(mustInterval(t, "11:00", 1), testDay, []*entity.Booking{existing})
	require.Len(t, got, 1)
	assert.Same(t, existing, got[0])
}

func TestFindConflicts_InactiveStatusesNeverConflict(t *testing.T) {
	snapshot := []*entity.Booking{
		booking("10:00", 2, entity.BookingStatusCancelled),
		booking("10:00", 2, entity.BookingStatusCompleted),
	}

	for _, clock := range []string{"09:00", "10:00", "10:30", "11:00", "11:59"} {
		assert.Empty(t, FindConflicts(mustInterval(t, clock, 1), testDay, snapshot), clock)
	}
}

func TestFindConflicts_MissingDurationDefaultsToOneHour(t *testing.T) {
	noDuration := booking("10:00", 0, entity.BookingStatusConfirmed)
	negative := booking("14:00", -3, entity.BookingStatusConfirmed)
	snapshot := []*entity.Booking{noDuration, negative}

	assert.Len(t, FindConflicts(mustInterval(t, "10:30", 1), testDay, snapshot), 1)
	assert.Empty(t, FindConflicts(mustInterval(t, "11:00", 1), testDay, snapshot))
	assert.Len(t, FindConflicts(mustInterval(t, "14:59", 1), testDay, snapshot), 1)
	assert.Empty(t, FindConflicts(mustInterval(t, "15:00", 1), testDay, snapshot))
}

func TestFindConflicts_SkipsBookingsWithoutUsableTime(t *testing.T) {
	snapshot := []*entity.Booking{
		booking("", 8, entity.BookingStatusConfirmed),
		booking("morning", 8, entity.BookingStatusConfirmed),
	}

	assert.Empty(t, FindConflicts(mustInterval(t, "10:00", 2), testDay, snapshot))
}

func TestFindConflicts_ReturnsEveryOverlap(t *testing.T) {
	a := booking("09:00", 2, entity.BookingStatusConfirmed)
	b := booking("12:00", 1, entity.BookingStatusPending)
	c := booking("15:00", 1, entity.BookingStatusConfirmed)

	got := FindConflicts(mustInterval(t, "10:00", 3), testDay, []*entity.Booking{a, b, c})
	assert.Equal(t, []*entity.Booking{a, b}, got)
}

func TestAvailableSlots_ExcludesOccupiedRange(t *testing.T) {
	snapshot := []*entity.Booking{booking("14:00", 3, entity.BookingStatusConfirmed)}

	got := AvailableSlots(testDay, 1, DefaultSlotWindow, snapshot)

	assert.Equal(t, []string{
		"08:00", "09:00", "10:00", "11:00", "12:00", "13:00",
		"17:00", "18:00", "19:00", "20:00", "21:00",
	}, got)
}

func TestAvailableSlots_EmptyDayOffersWholeWindow(t *testing.T) {
	got := AvailableSlots(testDay, 1, DefaultSlotWindow, nil)
	assert.Len(t, got, 14)
	assert.Equal(t, "08:00", got[0])
	assert.Equal(t, "21:00", got[13])
}

func TestAvailableSlots_LongerDurationBlocksEarlierStarts(t *testing.T) {
	snapshot := []*entity.Booking{booking("12:00", 1, entity.BookingStatusConfirmed)}

	got := AvailableSlots(testDay, 3, DefaultSlotWindow, snapshot)

	assert.NotContains(t, got, "10:00")
	assert.NotContains(t, got, "11:00")
	assert.NotContains(t, got, "12:00")
	assert.Contains(t, got, "09:00")
	assert.Contains(t, got, "13:00")
	// 21:00 for three hours runs past midnight and is still offered
	assert.Contains(t, got, "21:00")
}

func TestAvailableSlots_NonPositiveDurationUsesDefault(t *testing.T) {
	snapshot := []*entity.Booking{booking("10:00", 1, entity.BookingStatusConfirmed)}

	assert.Equal(t, AvailableSlots(testDay, 1, DefaultSlotWindow, snapshot), AvailableSlots(testDay, 0, DefaultSlotWindow, snapshot))
	assert.Equal(t, AvailableSlots(testDay, 1, DefaultSlotWindow, snapshot), AvailableSlots(testDay, -2, DefaultSlotWindow, snapshot))
}

func TestAvailableSlots_IgnoresInactive(t *testing.T) {
	snapshot := []*entity.Booking{booking("08:00", 14, entity.BookingStatusCancelled)}
	assert.Len(t, AvailableSlots(testDay, 1, DefaultSlotWindow, snapshot), 14)
}

func TestConflictQueries_AreRepeatable(t *testing.T) {
	snapshot := []*entity.Booking{
		booking("09:00", 1.5, entity.BookingStatusConfirmed),
		booking("13:00", 2, entity.BookingStatusPending),
	}
	candidate := mustInterval(t, "10:00", 4)

	assert.Equal(t, FindConflicts(candidate, testDay, snapshot), FindConflicts(candidate, testDay, snapshot))
	assert.Equal(t, AvailableSlots(testDay, 2, DefaultSlotWindow, snapshot), AvailableSlots(testDay, 2, DefaultSlotWindow, snapshot))
}

func TestIntervalAt_FractionalHoursAndMidnight(t *testing.T) {
	iv := mustInterval(t, "22:30", 2.5)

	assert.Equal(t, time.Date(2026, time.March, 14, 22, 30, 0, 0, time.UTC), iv.Start)
	assert.Equal(t, time.Date(2026, time.March, 15, 1, 0, 0, 0, time.UTC), iv.End)
}

func TestIntervalAt_WallClockAcrossDSTChange(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	springForward := time.Date(2024, time.March, 10, 0, 0, 0, 0, ny)

	iv, err := IntervalAt(springForward, "01:00", 2)
	require.NoError(t, err)

	assert.Equal(t, 3, iv.End.Hour())
	assert.Equal(t, time.Hour, iv.End.Sub(iv.Start))

	next := []*entity.Booking{booking("03:00", 1, entity.BookingStatusConfirmed)}
	assert.Empty(t, FindConflicts(iv, springForward, next))
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock("08:05")
	require.NoError(t, err)
	assert.Equal(t, 8, h)
	assert.Equal(t, 5, m)

	h, m, err = ParseClock("9:30")
	require.NoError(t, err)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	for _, bad := range []string{"", "24:00", "12:60", "12", "12:5", "ab:cd", "12:00:00"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestSlotWindow(t *testing.T) {
	half := SlotWindow{FirstStart: "09:00", LastStart: "11:00", Step: 30 * time.Minute}
	require.NoError(t, half.Validate())
	assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00"}, half.Candidates())

	assert.Error(t, SlotWindow{FirstStart: "12:00", LastStart: "09:00", Step: time.Hour}.Validate())
	assert.Error(t, SlotWindow{FirstStart: "09:00", LastStart: "12:00"}.Validate())
}
