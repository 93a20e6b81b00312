package core

import (
	"strconv"
	"time"

	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/core/algo"
	"github.com/huangsam/locmeta/schema"
)

// fileMax is the highest line number seen for a file.
type fileMax struct {
	file string
	max  int
}

// Summarize computes the summary statistics for a dataset. Hours of day are
// read in loc, or in each timestamp's own offset when loc is nil.
func Summarize(records []schema.LineRecord, commits []schema.Commit, loc *time.Location) []schema.StatPair {
	return []schema.StatPair{
		{Label: schema.LabelTotalLOC, Value: strconv.Itoa(len(records))},
		{Label: schema.LabelTotalCommits, Value: strconv.Itoa(len(commits))},
		{Label: schema.LabelNumberOfFiles, Value: strconv.Itoa(len(agg.DistinctFiles(records)))},
		{Label: schema.LabelLongestFile, Value: LongestFile(records)},
		{Label: schema.LabelAvgLineLength, Value: AverageLineLength(records)},
		{Label: schema.LabelMostActive, Value: MostActivePeriod(records, loc)},
	}
}

// LongestFile returns the file with the greatest line number. On a tie the
// file that appeared first wins.
func LongestFile(records []schema.LineRecord) string {
	index := make(map[string]int)
	var maxes []fileMax
	for _, rec := range records {
		i, ok := index[rec.File]
		if !ok {
			index[rec.File] = len(maxes)
			maxes = append(maxes, fileMax{file: rec.File, max: rec.Line})
			continue
		}
		if rec.Line > maxes[i].max {
			maxes[i].max = rec.Line
		}
	}
	best, ok := algo.GreatestBy(maxes, func(f fileMax) float64 { return float64(f.max) })
	if !ok {
		return schema.NotAvailable
	}
	return best.file
}

// AverageLineLength returns the mean line length with two decimals.
func AverageLineLength(records []schema.LineRecord) string {
	lengths := make([]float64, len(records))
	for i, rec := range records {
		lengths[i] = float64(rec.Length)
	}
	mean, ok := algo.Mean(lengths)
	if !ok {
		return schema.NotAvailable
	}
	return strconv.FormatFloat(mean, 'f', 2, 64)
}

// PeriodCounts counts records per period of the day, in the order each
// period is first encountered.
func PeriodCounts(records []schema.LineRecord, loc *time.Location) []schema.PeriodCount {
	index := make(map[schema.Period]int)
	var counts []schema.PeriodCount
	for _, rec := range records {
		p := schema.PeriodOfHour(agg.Hour(rec.Datetime, loc))
		i, ok := index[p]
		if !ok {
			index[p] = len(counts)
			counts = append(counts, schema.PeriodCount{Period: p})
			i = len(counts) - 1
		}
		counts[i].Count++
	}
	return counts
}

// MostActivePeriod returns the period with the most records.
func MostActivePeriod(records []schema.LineRecord, loc *time.Location) string {
	best, ok := algo.GreatestBy(PeriodCounts(records, loc), func(p schema.PeriodCount) float64 { return float64(p.Count) })
	if !ok {
		return schema.NotAvailable
	}
	return string(best.Period)
}
