package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestParseRelativeTimeUnit(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"valid plural months (mixed case)", "3 MoNtHs AgO", fixedNow.AddDate(0, -3, 0), false},
		{"valid singular week (capitalized)", "1 Week Ago", fixedNow.Add(-7 * 24 * time.Hour), false},
		{"valid 10 days (upper case)", "10 DAYS AGO", fixedNow.Add(-10 * 24 * time.Hour), false},
		{"invalid missing ago", "2 years", time.Time{}, true},
		{"invalid bad unit (decades)", "4 decades ago", time.Time{}, true},
		{"invalid non-numeric value", "one year ago", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseCutoff(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name     string
		input    string
		loc      *time.Location
		expected time.Time
	}{
		{"rfc3339 keeps its offset", "2025-02-09T14:30:00-05:00", nil, time.Date(2025, 2, 9, 19, 30, 0, 0, time.UTC)},
		{"date only in utc", "2025-02-09", nil, time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC)},
		{"date only in location", "2025-02-09", est, time.Date(2025, 2, 9, 5, 0, 0, 0, time.UTC)},
		{"minute precision", "2025-02-09 08:15", nil, time.Date(2025, 2, 9, 8, 15, 0, 0, time.UTC)},
		{"relative", "2 hours ago", nil, fixedNow.Add(-2 * time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCutoff(tt.input, fixedNow, tt.loc)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s", got)
		})
	}

	_, err := ParseCutoff("soon", fixedNow, nil)
	assert.Error(t, err)
}

func FuzzParseRelativeTime(f *testing.F) {
	f.Add("3 months ago")
	f.Add("1 week ago")
	f.Add("")
	f.Fuzz(func(t *testing.T, s string) {
		got, err := ParseRelativeTime(s, fixedNow)
		if err == nil && got.After(fixedNow) {
			t.Errorf("relative time %q resolved after now: %s", s, got)
		}
	})
}
