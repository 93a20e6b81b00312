package algo

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearScale(t *testing.T) {
	y := NewLinearScale(0, 24, 570, 10)

	assert.Equal(t, 570.0, y.Scale(0))
	assert.Equal(t, 10.0, y.Scale(24))
	assert.InDelta(t, 290.0, y.Scale(12), 1e-9)
	assert.InDelta(t, 12.0, y.Invert(290), 1e-9)

	t.Run("collapsed domain maps to midpoint", func(t *testing.T) {
		s := NewLinearScale(5, 5, 0, 100)
		assert.Equal(t, 50.0, s.Scale(5))
	})
}

func TestTicks(t *testing.T) {
	t.Run("hours of the day", func(t *testing.T) {
		ticks := Ticks(0, 24, 10)
		require.Len(t, ticks, 13)
		assert.Equal(t, 0.0, ticks[0])
		assert.Equal(t, 2.0, ticks[1])
		assert.Equal(t, 24.0, ticks[12])
	})

	t.Run("fractional step", func(t *testing.T) {
		assert.Equal(t, []float64{0, 0.2, 0.4, 0.6, 0.8, 1}, Ticks(0, 1, 5))
	})

	t.Run("reversed domain", func(t *testing.T) {
		assert.Equal(t, []float64{10, 5, 0}, Ticks(10, 0, 2))
	})

	t.Run("no ticks for zero count", func(t *testing.T) {
		assert.Empty(t, Ticks(0, 10, 0))
	})
}

func TestSqrtScale(t *testing.T) {
	r := NewSqrtScale(1, 100, 3, 25)
	assert.InDelta(t, 3.0, r.Scale(1), 1e-9)
	assert.InDelta(t, 25.0, r.Scale(100), 1e-9)
	assert.InDelta(t, 3+22*4.0/9.0, r.Scale(25), 1e-9)

	t.Run("single value domain", func(t *testing.T) {
		assert.Equal(t, 14.0, NewSqrtScale(5, 5, 3, 25).Scale(5))
	})
}

func TestTimeScaleNice(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		wantStart  time.Time
		wantEnd    time.Time
	}{
		{
			name:      "weeks",
			start:     time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC),
			end:       time.Date(2025, 2, 20, 15, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "hours",
			start:     time.Date(2025, 3, 1, 8, 10, 0, 0, time.UTC),
			end:       time.Date(2025, 3, 1, 17, 40, 0, 0, time.UTC),
			wantStart: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC),
		},
		{
			name:      "years",
			start:     time.Date(2010, 6, 1, 0, 0, 0, 0, time.UTC),
			end:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTimeScale(tt.start, tt.end, 20, 990).Nice()
			assert.True(t, tt.wantStart.Equal(s.D0), "start: got %s", s.D0)
			assert.True(t, tt.wantEnd.Equal(s.D1), "end: got %s", s.D1)
		})
	}

	t.Run("collapsed domain unchanged", func(t *testing.T) {
		at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		s := NewTimeScale(at, at, 20, 990).Nice()
		assert.True(t, at.Equal(s.D0))
		assert.Equal(t, 505.0, s.Scale(at))
	})
}

func TestTimeScaleInvert(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	s := NewTimeScale(t0, t1, 0, 100)

	assert.True(t, t0.Equal(s.Invert(0)))
	assert.True(t, t1.Equal(s.Invert(100)))
	assert.True(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC).Equal(s.Invert(50)))
	assert.InDelta(t, 50.0, s.Scale(s.Invert(50)), 1e-9)
}

func TestInterpolateRGB(t *testing.T) {
	a, err := ParseHex(SteelBlue)
	require.NoError(t, err)
	b, err := ParseHex(Orange)
	require.NoError(t, err)

	assert.Equal(t, "rgb(70, 130, 180)", InterpolateRGB(a, b, 0).String())
	assert.Equal(t, "rgb(255, 165, 0)", InterpolateRGB(a, b, 1).String())
	assert.Equal(t, "rgb(163, 148, 90)", InterpolateRGB(a, b, 0.5).String())
	assert.Equal(t, "#4682b4", InterpolateRGB(a, b, -2).Hex())

	_, err = ParseHex("#12")
	assert.Error(t, err)
}

func TestOrdinalScale(t *testing.T) {
	s := NewOrdinalScale(Tableau10)

	assert.Equal(t, "#4e79a7", s.Color("js"))
	assert.Equal(t, "#f28e2c", s.Color("css"))
	assert.Equal(t, "#4e79a7", s.Color("js"), "a key keeps its color")

	for i := range 8 {
		s.Color(fmt.Sprintf("t%d", i))
	}
	assert.Equal(t, "#4e79a7", s.Color("eleventh"), "palette cycles")
	assert.Equal(t, []string{"js", "css"}, s.Keys()[:2])
}

func TestGreatestBy(t *testing.T) {
	type item struct {
		name  string
		score float64
	}
	items := []item{{"a", 1}, {"b", 3}, {"c", 3}}

	best, ok := GreatestBy(items, func(i item) float64 { return i.score })
	require.True(t, ok)
	assert.Equal(t, "b", best.name, "first maximum wins")

	_, ok = GreatestBy([]item{}, func(i item) float64 { return i.score })
	assert.False(t, ok)
}

func TestMeanAndExtent(t *testing.T) {
	m, ok := Mean([]float64{10, 20, 30, 40})
	assert.True(t, ok)
	assert.Equal(t, 25.0, m)

	_, ok = Mean(nil)
	assert.False(t, ok)

	lo, hi, ok := Extent([]float64{4, -1, 9})
	assert.True(t, ok)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 9.0, hi)
}
