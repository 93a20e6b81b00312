package core

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/locmeta/core/algo"
	"github.com/huangsam/locmeta/schema"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed projects.schema.json
var projectsSchema []byte

// LoadProjectsFile reads and validates a projects.json file.
func LoadProjectsFile(filePath string) ([]schema.Project, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", filePath, err)
	}
	return ParseProjects(data)
}

// ParseProjects validates data against the projects schema and decodes it.
// Numeric years are accepted and kept as strings.
func ParseProjects(data []byte) ([]schema.Project, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(projectsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot validate projects: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("invalid projects: %s", strings.Join(msgs, "; "))
	}

	var raw []struct {
		Title       string          `json:"title"`
		Year        json.RawMessage `json:"year"`
		Image       string          `json:"image"`
		Description string          `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot decode projects: %w", err)
	}
	projects := make([]schema.Project, len(raw))
	for i, r := range raw {
		projects[i] = schema.Project{
			Title:       r.Title,
			Year:        strings.Trim(string(r.Year), `"`),
			Image:       r.Image,
			Description: r.Description,
		}
	}
	return projects, nil
}

// ProjectsTitle is the heading above the project list.
func ProjectsTitle(projects []schema.Project) string {
	return strconv.Itoa(len(projects)) + " Projects"
}

// RollupByYear counts projects per year in first-appearance order.
func RollupByYear(projects []schema.Project) []schema.YearCount {
	index := make(map[string]int)
	var out []schema.YearCount
	for _, p := range projects {
		i, ok := index[p.Year]
		if !ok {
			i = len(out)
			index[p.Year] = i
			out = append(out, schema.YearCount{Label: p.Year})
		}
		out[i].Value++
	}
	return out
}

// PieSlices lays out the year counts as pie wedges. Slices keep input order;
// angles are assigned largest value first, starting at 0 and sweeping to 2π.
// Colors follow input position in the Tableau10 palette.
func PieSlices(counts []schema.YearCount) []schema.PieSlice {
	slices := make([]schema.PieSlice, len(counts))
	total := 0
	for i, c := range counts {
		total += c.Value
		slices[i] = schema.PieSlice{
			Label:  c.Label,
			Value:  c.Value,
			Color:  algo.IndexColor(algo.Tableau10, i),
			Legend: fmt.Sprintf("%s (%d)", c.Label, c.Value),
		}
	}
	if total == 0 {
		return slices
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]].Value > counts[order[b]].Value
	})

	k := 2 * math.Pi / float64(total)
	angle := 0.0
	for _, i := range order {
		slices[i].StartAngle = angle
		angle += float64(counts[i].Value) * k
		slices[i].EndAngle = angle
	}
	return slices
}
