package agg

import (
	"sort"
	"strings"
	"time"

	"github.com/huangsam/locmeta/schema"
)

// CommitOptions controls how records are turned into commits.
type CommitOptions struct {
	// RepoURL is the web URL of the repository; commit links are RepoURL/commit/<id>.
	RepoURL string

	// Location overrides the timezone used for hour-of-day. When nil the
	// offset recorded with each timestamp is used.
	Location *time.Location
}

// ProcessCommits groups records by commit id and returns one Commit per
// group, ordered by datetime. Attributes come from the first record seen
// for each commit. Commits with equal datetimes keep first-seen order.
func ProcessCommits(records []schema.LineRecord, opts CommitOptions) []schema.Commit {
	order := make([]string, 0)
	groups := make(map[string][]schema.LineRecord)
	for _, rec := range records {
		if _, seen := groups[rec.Commit]; !seen {
			order = append(order, rec.Commit)
		}
		groups[rec.Commit] = append(groups[rec.Commit], rec)
	}

	commits := make([]schema.Commit, 0, len(order))
	for _, id := range order {
		lines := groups[id]
		first := lines[0]
		commits = append(commits, schema.NewCommit(schema.Commit{
			ID:       id,
			URL:      CommitURL(opts.RepoURL, id),
			Author:   first.Author,
			Date:     first.Date,
			Time:     first.Time,
			Timezone: first.Timezone,
			Datetime: first.Datetime,
			HourFrac: HourFrac(first.Datetime, opts.Location),
		}, lines))
	}

	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Datetime.Before(commits[j].Datetime)
	})
	return commits
}

// CommitURL joins a repository URL and a commit id. An empty repoURL gives "".
func CommitURL(repoURL, id string) string {
	if repoURL == "" {
		return ""
	}
	return strings.TrimSuffix(repoURL, "/") + "/commit/" + id
}

// HourFrac returns the fractional hour of t in [0, 24).
func HourFrac(t time.Time, loc *time.Location) float64 {
	if loc != nil {
		t = t.In(loc)
	}
	return float64(t.Hour()) + float64(t.Minute())/60
}

// Hour returns the hour of t, in loc when set.
func Hour(t time.Time, loc *time.Location) int {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Hour()
}

// DistinctFiles returns file paths in first-appearance order.
func DistinctFiles(records []schema.LineRecord) []string {
	seen := make(map[string]struct{})
	var files []string
	for _, rec := range records {
		if _, ok := seen[rec.File]; ok {
			continue
		}
		seen[rec.File] = struct{}{}
		files = append(files, rec.File)
	}
	return files
}
