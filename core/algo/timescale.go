package algo

import (
	"math"
	"sort"
	"time"
)

const (
	durationSecond = int64(1000)
	durationMinute = durationSecond * 60
	durationHour   = durationMinute * 60
	durationDay    = durationHour * 24
	durationWeek   = durationDay * 7
	durationMonth  = durationDay * 30
	durationYear   = durationDay * 365
)

// calendarUnit is a calendar interval in a given location.
type calendarUnit struct {
	floor  func(t time.Time) time.Time
	offset func(t time.Time, n int) time.Time
	field  func(t time.Time) int // nil when every step is accepted
}

func secondUnit() calendarUnit {
	return calendarUnit{
		floor:  func(t time.Time) time.Time { return t.Truncate(time.Second) },
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Second) },
		field:  func(t time.Time) int { return t.Second() },
	}
}

func minuteUnit() calendarUnit {
	return calendarUnit{
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, t.Location())
		},
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Minute) },
		field:  func(t time.Time) int { return t.Minute() },
	}
}

func hourUnit() calendarUnit {
	return calendarUnit{
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
		},
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Hour) },
		field:  func(t time.Time) int { return t.Hour() },
	}
}

func dayUnit() calendarUnit {
	return calendarUnit{
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		},
		offset: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
		field:  func(t time.Time) int { return t.Day() - 1 },
	}
}

func weekUnit() calendarUnit {
	return calendarUnit{
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
		},
		offset: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) },
	}
}

func monthUnit() calendarUnit {
	return calendarUnit{
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		},
		offset: func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
		field:  func(t time.Time) int { return int(t.Month()) - 1 },
	}
}

func yearUnit() calendarUnit {
	return calendarUnit{
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		},
		offset: func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) },
		field:  func(t time.Time) int { return t.Year() },
	}
}

func millisecondUnit() calendarUnit {
	return calendarUnit{
		floor:  func(t time.Time) time.Time { return t.Truncate(time.Millisecond) },
		offset: func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * time.Millisecond) },
		field:  func(t time.Time) int { return int(t.UnixMilli()) },
	}
}

type tickInterval struct {
	unit     func() calendarUnit
	step     int
	duration int64
}

var tickIntervals = []tickInterval{
	{secondUnit, 1, durationSecond},
	{secondUnit, 5, 5 * durationSecond},
	{secondUnit, 15, 15 * durationSecond},
	{secondUnit, 30, 30 * durationSecond},
	{minuteUnit, 1, durationMinute},
	{minuteUnit, 5, 5 * durationMinute},
	{minuteUnit, 15, 15 * durationMinute},
	{minuteUnit, 30, 30 * durationMinute},
	{hourUnit, 1, durationHour},
	{hourUnit, 3, 3 * durationHour},
	{hourUnit, 6, 6 * durationHour},
	{hourUnit, 12, 12 * durationHour},
	{dayUnit, 1, durationDay},
	{dayUnit, 2, 2 * durationDay},
	{weekUnit, 1, durationWeek},
	{monthUnit, 1, durationMonth},
	{monthUnit, 3, 3 * durationMonth},
	{yearUnit, 1, durationYear},
}

// steppedUnit is a calendarUnit restricted to every step-th boundary.
type steppedUnit struct {
	calendarUnit
	step int
}

func (u steppedUnit) accepts(t time.Time) bool {
	if u.step <= 1 || u.field == nil {
		return true
	}
	return u.field(t)%u.step == 0
}

func (u steppedUnit) floorTo(t time.Time) time.Time {
	f := u.floor(t)
	for !u.accepts(f) {
		f = u.floor(f.Add(-time.Millisecond))
	}
	return f
}

func (u steppedUnit) ceilTo(t time.Time) time.Time {
	f := u.floorTo(t.Add(-time.Millisecond))
	f = u.offset(f, 1)
	for !u.accepts(f) {
		f = u.offset(f, 1)
	}
	return u.floor(f)
}

// chooseInterval picks the calendar interval that yields about count ticks
// across [start, stop].
func chooseInterval(start, stop time.Time, count int) (steppedUnit, bool) {
	span := stop.UnixMilli() - start.UnixMilli()
	if span < 0 {
		span = -span
	}
	target := float64(span) / float64(count)
	i := sort.Search(len(tickIntervals), func(i int) bool {
		return float64(tickIntervals[i].duration) > target
	})
	switch i {
	case len(tickIntervals):
		step := int(math.Floor(TickStep(float64(start.UnixMilli())/float64(durationYear), float64(stop.UnixMilli())/float64(durationYear), count)))
		if step < 1 {
			return steppedUnit{}, false
		}
		return steppedUnit{yearUnit(), step}, true
	case 0:
		step := int(math.Max(math.Floor(TickStep(float64(start.UnixMilli()), float64(stop.UnixMilli()), count)), 1))
		return steppedUnit{millisecondUnit(), step}, true
	}
	prev, next := tickIntervals[i-1], tickIntervals[i]
	chosen := next
	if target/float64(prev.duration) < float64(next.duration)/target {
		chosen = prev
	}
	return steppedUnit{chosen.unit(), chosen.step}, true
}

// TimeScale maps a time domain onto a numeric range.
type TimeScale struct {
	D0, D1 time.Time
	R0, R1 float64
}

// NewTimeScale returns a time scale from [d0, d1] to [r0, r1].
func NewTimeScale(d0, d1 time.Time, r0, r1 float64) TimeScale {
	return TimeScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps t into the range.
func (s TimeScale) Scale(t time.Time) float64 {
	a, b := float64(s.D0.UnixMilli()), float64(s.D1.UnixMilli())
	return interpolate(s.R0, s.R1, normalize(a, b, float64(t.UnixMilli())))
}

// Invert maps a range value back to a time with millisecond precision.
func (s TimeScale) Invert(v float64) time.Time {
	a, b := float64(s.D0.UnixMilli()), float64(s.D1.UnixMilli())
	ms := interpolate(a, b, normalize(s.R0, s.R1, v))
	return time.UnixMilli(int64(math.Round(ms))).In(s.D0.Location())
}

// Nice extends the domain outward to the nearest round calendar boundaries
// for about ten ticks. A collapsed domain is returned unchanged.
func (s TimeScale) Nice() TimeScale {
	return s.NiceCount(10)
}

// NiceCount is Nice with an explicit tick count.
func (s TimeScale) NiceCount(count int) TimeScale {
	if !s.D0.Before(s.D1) || count <= 0 {
		return s
	}
	unit, ok := chooseInterval(s.D0, s.D1, count)
	if !ok {
		return s
	}
	s.D0 = unit.floorTo(s.D0)
	s.D1 = unit.ceilTo(s.D1)
	return s
}
