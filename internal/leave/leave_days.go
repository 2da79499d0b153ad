package leave

import "time"

// toCalendarDay strips the time-of-day component so date arithmetic cannot
// be skewed by timezone offsets in the stored values.
func toCalendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetweenInclusive counts requested days between start and end, both
// inclusive, subtracting half a day for each boundary flag. A one-day
// request with both flags set therefore comes out at zero, which callers
// must reject.
func DaysBetweenInclusive(start, end time.Time, firstHalf, lastHalf bool) float64 {
	s := toCalendarDay(start)
	e := toCalendarDay(end)
	if e.Before(s) {
		return 0
	}

	days := float64(e.Sub(s)/(24*time.Hour)) + 1
	if firstHalf {
		days -= 0.5
	}
	if lastHalf {
		days -= 0.5
	}
	return days
}

// IntervalsOverlap reports whether [aStart,aEnd] and [bStart,bEnd] share at
// least one calendar day. Both ranges are inclusive on both ends.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	as, ae := toCalendarDay(aStart), toCalendarDay(aEnd)
	bs, be := toCalendarDay(bStart), toCalendarDay(bEnd)
	return !as.After(be) && !ae.Before(bs)
}
