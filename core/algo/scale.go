// Package algo has the numeric building blocks behind the commit views:
// scales, tick generation, color interpolation and small reductions.
package algo

import "math"

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// LinearScale maps a continuous domain onto a continuous range.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewLinearScale returns a linear scale from [d0, d1] to [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps v from the domain into the range.
func (s LinearScale) Scale(v float64) float64 {
	return interpolate(s.R0, s.R1, normalize(s.D0, s.D1, v))
}

// Invert maps a range value back into the domain.
func (s LinearScale) Invert(v float64) float64 {
	return interpolate(s.D0, s.D1, normalize(s.R0, s.R1, v))
}

// Ticks returns roughly count evenly spaced round values within the domain.
func (s LinearScale) Ticks(count int) []float64 {
	return Ticks(s.D0, s.D1, count)
}

// SqrtScale maps a domain onto a range through a square-root transform, so the
// area of a circle with radius Scale(v) grows linearly with v.
type SqrtScale struct {
	D0, D1 float64
	R0, R1 float64
}

// NewSqrtScale returns a square-root scale from [d0, d1] to [r0, r1].
func NewSqrtScale(d0, d1, r0, r1 float64) SqrtScale {
	return SqrtScale{D0: d0, D1: d1, R0: r0, R1: r1}
}

// Scale maps v from the domain into the range.
func (s SqrtScale) Scale(v float64) float64 {
	return interpolate(s.R0, s.R1, normalize(signedSqrt(s.D0), signedSqrt(s.D1), signedSqrt(v)))
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

// normalize returns where v sits in [a, b] as a fraction. A collapsed
// domain yields 0.5 so every value lands on the range midpoint.
func normalize(a, b, v float64) float64 {
	if b-a == 0 {
		return 0.5
	}
	return (v - a) / (b - a)
}

func interpolate(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// tickSpec picks a 1-2-5 step for splitting [start, stop] into about count
// intervals. A negative inc means the step is 1/-inc.
func tickSpec(start, stop float64, count int) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, float64(count))
	power := math.Floor(math.Log10(step))
	errv := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case errv >= e10:
		factor = 10
	case errv >= e5:
		factor = 5
	case errv >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && count >= 1 && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// TickStep returns the distance between adjacent ticks for [start, stop].
func TickStep(start, stop float64, count int) float64 {
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	_, _, inc := tickSpec(start, stop, count)
	if inc < 0 {
		inc = 1 / -inc
	}
	if reverse {
		return -inc
	}
	return inc
}

// Ticks returns about count round values spanning [start, stop], inclusive.
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, count)
	if !(i2 >= i1) || math.IsNaN(inc) || math.IsInf(inc, 0) {
		return nil
	}
	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := range n {
		var v float64
		if inc < 0 {
			v = (i1 + float64(i)) / -inc
		} else {
			v = (i1 + float64(i)) * inc
		}
		if reverse {
			ticks[n-1-i] = v
		} else {
			ticks[i] = v
		}
	}
	return ticks
}
