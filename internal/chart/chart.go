// Package chart renders the commit scatter, the language pie and the projects
// pie as a single ECharts HTML page.
package chart

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/locmeta/schema"
)

// Page sizes.
const (
	scatterWidth  = "1000px"
	scatterHeight = "600px"
	pieWidth      = "600px"
	pieHeight     = "400px"
	pointColor    = "steelblue"
)

// ScatterItem is a drawn point with its hover card.
type ScatterItem struct {
	Point   schema.Point
	Tooltip schema.Tooltip
}

// Input is everything the page shows.
type Input struct {
	Title    string
	Subtitle string
	Items    []ScatterItem
	Types    []schema.TypeShare
	Projects schema.ProjectsResult
}

// NewScatter plots commits by datetime and hour of day. Symbol sizes follow
// the point radius so the chart matches the computed layout.
func NewScatter(title, subtitle string, items []ScatterItem) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: scatterWidth, Height: scatterHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item", Formatter: "{b}"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date", Type: "time"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:     "Time of day",
			Type:     "value",
			Min:  0,
			Max:  24,
			AxisLabel: &opts.AxisLabel{
				Formatter: "{value}:00",
			},
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithBrush(opts.Brush{
			XAxisIndex: "all",
			Brushlink:  "all",
			OutOfBrush: &opts.BrushOutOfBrush{ColorAlpha: 0.1},
		}),
	)

	data := make([]opts.ScatterData, len(items))
	for i, it := range items {
		c := it.Point.Commit
		data[i] = opts.ScatterData{
			Name:       TooltipText(it.Tooltip),
			Value:      []any{c.Datetime.UnixMilli(), c.HourFrac, it.Point.CommitID},
			SymbolSize: int(2 * it.Point.R),
		}
	}
	scatter.AddSeries("Commits", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: pointColor}),
	)
	return scatter
}

// TooltipText flattens a hover card into the lines the chart shows.
func TooltipText(t schema.Tooltip) string {
	lines := []string{
		"Commit: " + t.CommitID,
		"Date: " + t.Date,
		"Time: " + t.Time,
		"Author: " + t.Author,
		"Lines edited: " + t.Lines,
	}
	return strings.Join(lines, "\n")
}

// NewLanguagePie shows the language shares of a breakdown.
func NewLanguagePie(types []schema.TypeShare) *charts.Pie {
	pie := newPie("Languages")
	data := make([]opts.PieData, len(types))
	for i, s := range types {
		data[i] = opts.PieData{Name: s.Type, Value: s.Count, ItemStyle: &opts.ItemStyle{Color: s.Color}}
	}
	pie.AddSeries("Languages", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

// NewProjectsPie shows projects per year with the precomputed slice colors.
func NewProjectsPie(result schema.ProjectsResult) *charts.Pie {
	pie := newPie(result.Title)
	data := make([]opts.PieData, len(result.Slices))
	for i, s := range result.Slices {
		data[i] = opts.PieData{Name: s.Label, Value: s.Value, ItemStyle: &opts.ItemStyle{Color: s.Color}}
	}
	pie.AddSeries("Projects", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}"}),
	)
	return pie
}

func newPie(title string) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: pieWidth, Height: pieHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)
	return pie
}

// RenderPage writes the HTML page. Empty sections are left out.
func RenderPage(w io.Writer, in Input) error {
	page := components.NewPage()
	page.PageTitle = in.Title
	page.AddCharts(NewScatter(in.Title, in.Subtitle, in.Items))
	if len(in.Types) > 0 {
		page.AddCharts(NewLanguagePie(in.Types))
	}
	if len(in.Projects.Slices) > 0 {
		page.AddCharts(NewProjectsPie(in.Projects))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart page: %w", err)
	}
	return nil
}
