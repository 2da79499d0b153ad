package leave_test

import (
	"testing"
	"time"

	"leavehub/internal/leave"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysBetweenInclusive(t *testing.T) {
	t.Run("single day counts as one", func(t *testing.T) {
		got := leave.DaysBetweenInclusive(day(2026, 3, 10), day(2026, 3, 10), false, false)
		assert.Equal(t, 1.0, got)
	})

	t.Run("range is inclusive on both ends", func(t *testing.T) {
		got := leave.DaysBetweenInclusive(day(2026, 3, 1), day(2026, 3, 3), false, false)
		assert.Equal(t, 3.0, got)
	})

	t.Run("first day half subtracts half a day", func(t *testing.T) {
		got := leave.DaysBetweenInclusive(day(2026, 3, 1), day(2026, 3, 3), true, false)
		assert.Equal(t, 2.5, got)
	})

	t.Run("both halves subtract a full day", func(t *testing.T) {
		got := leave.DaysBetweenInclusive(day(2026, 3, 1), day(2026, 3, 3), true, true)
		assert.Equal(t, 2.0, got)
	})

	t.Run("single day with both halves collapses to zero", func(t *testing.T) {
		got := leave.DaysBetweenInclusive(day(2026, 3, 10), day(2026, 3, 10), true, true)
		assert.Equal(t, 0.0, got)
	})

	t.Run("end before start yields zero", func(t *testing.T) {
		got := leave.DaysBetweenInclusive(day(2026, 3, 10), day(2026, 3, 9), false, false)
		assert.Equal(t, 0.0, got)
	})

	t.Run("time of day does not skew the count", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
		end := time.Date(2026, 3, 3, 0, 15, 0, 0, time.UTC)
		assert.Equal(t, 3.0, leave.DaysBetweenInclusive(start, end, false, false))
	})
}

func TestIntervalsOverlap(t *testing.T) {
	t.Run("disjoint ranges", func(t *testing.T) {
		assert.False(t, leave.IntervalsOverlap(
			day(2026, 3, 1), day(2026, 3, 3),
			day(2026, 3, 4), day(2026, 3, 6),
		))
	})

	t.Run("shared boundary day overlaps", func(t *testing.T) {
		assert.True(t, leave.IntervalsOverlap(
			day(2026, 3, 1), day(2026, 3, 3),
			day(2026, 3, 3), day(2026, 3, 5),
		))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		assert.True(t, leave.IntervalsOverlap(
			day(2026, 3, 1), day(2026, 3, 10),
			day(2026, 3, 4), day(2026, 3, 5),
		))
	})

	t.Run("order of ranges does not matter", func(t *testing.T) {
		assert.True(t, leave.IntervalsOverlap(
			day(2026, 3, 4), day(2026, 3, 5),
			day(2026, 3, 1), day(2026, 3, 10),
		))
	})
}
