package core

import (
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/locmeta/core/algo"
	"github.com/huangsam/locmeta/schema"
)

// BuildBreakdown groups the lines of commits by file and by type. Files are
// sorted by line count, largest first; types keep first-appearance order.
// Colors come from palette so a type keeps its color across calls.
func BuildBreakdown(commits []schema.Commit, palette *algo.OrdinalScale) schema.Breakdown {
	lines := schema.FlattenLines(commits)

	var out schema.Breakdown
	for _, typ := range uniqueTypes(lines) {
		out.Legend = append(out.Legend, schema.LegendItem{Type: typ, Color: palette.Color(typ)})
	}
	out.Files = groupFiles(lines, palette)
	out.Types = typeShares(lines, palette)
	return out
}

// LanguageBreakdown returns the type shares for a brush selection. An empty
// selection yields no entries.
func LanguageBreakdown(selected []schema.Commit, palette *algo.OrdinalScale) []schema.TypeShare {
	if len(selected) == 0 {
		return nil
	}
	return typeShares(schema.FlattenLines(selected), palette)
}

func uniqueTypes(lines []schema.LineRecord) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, l := range lines {
		if _, ok := seen[l.Type]; ok {
			continue
		}
		seen[l.Type] = struct{}{}
		types = append(types, l.Type)
	}
	return types
}

func groupFiles(lines []schema.LineRecord, palette *algo.OrdinalScale) []schema.FileEntry {
	index := make(map[string]int)
	var files []schema.FileEntry
	for _, l := range lines {
		i, ok := index[l.File]
		if !ok {
			i = len(files)
			index[l.File] = i
			files = append(files, schema.FileEntry{Name: l.File})
		}
		files[i].Lines++
		files[i].Markers = append(files[i].Markers, schema.Marker{Type: l.Type, Color: palette.Color(l.Type)})
	}
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Lines > files[j].Lines
	})
	return files
}

func typeShares(lines []schema.LineRecord, palette *algo.OrdinalScale) []schema.TypeShare {
	if len(lines) == 0 {
		return nil
	}
	index := make(map[string]int)
	var shares []schema.TypeShare
	for _, l := range lines {
		i, ok := index[l.Type]
		if !ok {
			i = len(shares)
			index[l.Type] = i
			shares = append(shares, schema.TypeShare{Type: l.Type, Color: palette.Color(l.Type)})
		}
		shares[i].Count++
	}
	total := float64(len(lines))
	for i := range shares {
		shares[i].Percent = float64(shares[i].Count) / total
		shares[i].Formatted = FormatPercent(shares[i].Percent)
	}
	return shares
}

// FormatPercent formats a proportion as a percentage with one decimal,
// dropping a trailing zero: 0.5 is "50%", 1/3 is "33.3%".
func FormatPercent(p float64) string {
	s := strconv.FormatFloat(p*100, 'f', 1, 64)
	s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-" {
		s = "0"
	}
	return s + "%"
}
