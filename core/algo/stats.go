package algo

import "time"

// GreatestBy returns the element with the largest score. Ties keep the
// earliest element. ok is false for an empty slice.
func GreatestBy[T any](items []T, score func(T) float64) (best T, ok bool) {
	var bestScore float64
	for i, it := range items {
		s := score(it)
		if i == 0 || s > bestScore {
			best, bestScore, ok = it, s, true
		}
	}
	return best, ok
}

// Mean returns the arithmetic mean of values, or false when empty.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// Extent returns the min and max of values, or false when empty.
func Extent(values []float64) (lo, hi float64, ok bool) {
	for i, v := range values {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi, len(values) > 0
}

// TimeExtent returns the earliest and latest of times, or false when empty.
func TimeExtent(times []time.Time) (lo, hi time.Time, ok bool) {
	for i, t := range times {
		if i == 0 || t.Before(lo) {
			lo = t
		}
		if i == 0 || t.After(hi) {
			hi = t
		}
	}
	return lo, hi, len(times) > 0
}
