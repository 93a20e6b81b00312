package core

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/locmeta/core/agg"
	"github.com/huangsam/locmeta/schema"
	"github.com/stretchr/testify/require"
)

const fixtureFile = "testdata/loc.csv"

// loadFixture returns the records and commits of testdata/loc.csv.
func loadFixture(t *testing.T) ([]schema.LineRecord, []schema.Commit) {
	t.Helper()
	records, err := agg.LoadRecordsFile(filepath.FromSlash(fixtureFile))
	require.NoError(t, err)
	return records, agg.ProcessCommits(records, agg.CommitOptions{RepoURL: "https://github.com/ada/site"})
}

// newFixtureState returns a view state over the fixture with the slider at 100.
func newFixtureState(t *testing.T) *ViewState {
	t.Helper()
	records, commits := loadFixture(t)
	state, err := NewViewState(records, commits, nil)
	require.NoError(t, err)
	return state
}

func commitIDs(commits []schema.Commit) []string {
	ids := make([]string, len(commits))
	for i, c := range commits {
		ids[i] = c.ID
	}
	return ids
}

func pointIDs(points []schema.Point) []string {
	ids := make([]string, len(points))
	for i, p := range points {
		ids[i] = p.CommitID
	}
	return ids
}
