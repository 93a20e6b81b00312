package core

import (
	"testing"
	"time"

	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records, commits := loadFixture(t)

	stats := Summarize(records, commits, nil)
	assert.Equal(t, []schema.StatPair{
		{Label: schema.LabelTotalLOC, Value: "8"},
		{Label: schema.LabelTotalCommits, Value: "4"},
		{Label: schema.LabelNumberOfFiles, Value: "4"},
		{Label: schema.LabelLongestFile, Value: "global.js"},
		{Label: schema.LabelAvgLineLength, Value: "23.75"},
		{Label: schema.LabelMostActive, Value: "Afternoon"},
	}, stats)
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil, nil, nil)
	assert.Equal(t, "0", stats[0].Value)
	assert.Equal(t, "0", stats[1].Value)
	assert.Equal(t, "0", stats[2].Value)
	assert.Equal(t, schema.NotAvailable, stats[3].Value)
	assert.Equal(t, schema.NotAvailable, stats[4].Value)
	assert.Equal(t, schema.NotAvailable, stats[5].Value)
}

func TestLongestFile(t *testing.T) {
	tests := []struct {
		name    string
		records []schema.LineRecord
		want    string
	}{
		{"empty", nil, schema.NotAvailable},
		{"single", []schema.LineRecord{{File: "a.go", Line: 3}}, "a.go"},
		{
			"max line wins",
			[]schema.LineRecord{{File: "a.go", Line: 3}, {File: "b.go", Line: 9}, {File: "a.go", Line: 5}},
			"b.go",
		},
		{
			"tie keeps first file",
			[]schema.LineRecord{{File: "a.go", Line: 4}, {File: "b.go", Line: 4}},
			"a.go",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LongestFile(tt.records))
		})
	}
}

func TestMostActivePeriod(t *testing.T) {
	at := func(hours ...int) []schema.LineRecord {
		recs := make([]schema.LineRecord, len(hours))
		for i, h := range hours {
			recs[i] = schema.LineRecord{Datetime: time.Date(2025, 1, 1, h, 30, 0, 0, time.UTC)}
		}
		return recs
	}

	tests := []struct {
		name  string
		hours []int
		want  string
	}{
		{"one of each plus an evening", []int{1, 7, 13, 19, 20}, "Evening"},
		{"night wins", []int{0, 5, 23, 2}, "Night"},
		{"morning boundary", []int{6, 11, 12}, "Morning"},
		{"afternoon boundary", []int{12, 17, 18}, "Afternoon"},
		{"tie keeps first period seen", []int{13, 7, 7, 13}, "Afternoon"},
		{"no records", nil, schema.NotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MostActivePeriod(at(tt.hours...), nil))
		})
	}
}

func TestAverageLineLength(t *testing.T) {
	assert.Equal(t, "2.50", AverageLineLength([]schema.LineRecord{{Length: 2}, {Length: 3}}))
	assert.Equal(t, "0.00", AverageLineLength([]schema.LineRecord{{Length: 0}}))
	assert.Equal(t, schema.NotAvailable, AverageLineLength(nil))
}

func TestPeriodCounts(t *testing.T) {
	records, _ := loadFixture(t)

	t.Run("recorded offsets", func(t *testing.T) {
		assert.Equal(t, []schema.PeriodCount{
			{Period: schema.Morning, Count: 2},
			{Period: schema.Afternoon, Count: 4},
			{Period: schema.Evening, Count: 1},
			{Period: schema.Night, Count: 1},
		}, PeriodCounts(records, nil))
	})

	t.Run("read in UTC", func(t *testing.T) {
		// 09:15-05 is 14:15Z, 14:30-05 is 19:30Z, 22:00-05 is 03:00Z.
		assert.Equal(t, []schema.PeriodCount{
			{Period: schema.Afternoon, Count: 2},
			{Period: schema.Evening, Count: 4},
			{Period: schema.Night, Count: 2},
		}, PeriodCounts(records, time.UTC))
		assert.Equal(t, "Evening", MostActivePeriod(records, time.UTC))
	})

	t.Run("tie keeps first period", func(t *testing.T) {
		recs := []schema.LineRecord{
			{Datetime: time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC)},
			{Datetime: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)},
		}
		assert.Equal(t, "Evening", MostActivePeriod(recs, nil))
	})
}
