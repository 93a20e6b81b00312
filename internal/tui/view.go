package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/huangsam/locmeta/core"
	"github.com/huangsam/locmeta/schema"
)

const (
	barWidth   = 40
	plotWidth  = 60
	plotHeight = 12
)

// View renders the model.
func (m Model) View() string {
	if m.shouldQuit {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("locmeta timeline"))
	b.WriteString("\n\n")
	b.WriteString(m.renderSlider())
	b.WriteString("\n\n")

	if m.mode == ModeStory {
		b.WriteString(m.renderStory())
		b.WriteString("\n\n")
	}

	if m.view == schema.FilesView {
		b.WriteString(m.renderFiles())
	} else {
		b.WriteString(m.renderScatter())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderSlider() string {
	filled := int(math.Round(m.state.Progress() / core.MaxProgress * barWidth))
	bar := strings.Repeat("=", filled) + strings.Repeat("-", barWidth-filled)
	view := m.state.View()
	counts := fmt.Sprintf("%s commits, %s lines",
		humanize.Comma(int64(len(view.Commits))), humanize.Comma(int64(len(view.Lines))))
	return fmt.Sprintf("%s [%s] %3.0f%%\n%s  %s",
		labelStyle.Render("Show commits until:"), bar, m.state.Progress(),
		m.state.CutoffLabel(), mutedStyle.Render(counts))
}

func (m Model) renderStory() string {
	obs := m.observer()
	i := obs.Current()
	if i < 0 || i >= len(m.steps) {
		return ""
	}
	text := m.steps[i].Text
	header := activeStyle.Render(fmt.Sprintf("Step %d of %d", i+1, obs.Len()))
	width := max(m.width-4, 20)
	return storyStyle.Width(width).Render(header + "\n" + text)
}

// points returns the slider's points, or the story frame's in story mode.
func (m Model) points() []schema.Point {
	if m.mode == ModeStory {
		return m.state.ScatterFrame().Points
	}
	return m.state.Points()
}

func (m Model) breakdown() schema.Breakdown {
	if m.mode == ModeStory {
		return m.state.FilesFrame().Breakdown
	}
	return m.state.Breakdown()
}

// renderScatter draws the current points on a character grid. Larger
// commits get heavier glyphs.
func (m Model) renderScatter() string {
	grid := make([][]rune, plotHeight)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", plotWidth))
	}
	area := m.state.Layout.Area
	for _, p := range m.points() {
		col := cell(p.X-area.Left, area.Width, plotWidth)
		row := cell(p.Y-area.Top, area.Height, plotHeight)
		glyph := '·'
		switch {
		case p.R >= 15:
			glyph = '●'
		case p.R >= 8:
			glyph = '•'
		}
		if rank(grid[row][col]) < rank(glyph) {
			grid[row][col] = glyph
		}
	}

	var b strings.Builder
	for i, row := range grid {
		label := mutedStyle.Render("     ")
		switch i {
		case 0:
			label = hourLabel(24)
		case plotHeight / 2:
			label = hourLabel(12)
		case plotHeight - 1:
			label = hourLabel(0)
		}
		b.WriteString(label)
		b.WriteString(" │")
		b.WriteString(pointStyle.Render(string(row)))
		b.WriteString("\n")
	}
	return b.String()
}

// hourLabel renders "HH:00" in the gridline color of that hour.
func hourLabel(h float64) string {
	text := core.HourLabel(h)
	if h == 24 {
		text = "24:00"
	}
	return markerStyle(core.HourColor(h).Hex()).Render(text)
}

func cell(offset, extent float64, n int) int {
	if extent <= 0 {
		return n / 2
	}
	i := int(offset / extent * float64(n))
	return max(0, min(n-1, i))
}

func rank(r rune) int {
	switch r {
	case '●':
		return 3
	case '•':
		return 2
	case '·':
		return 1
	}
	return 0
}

// renderFiles lists files with one colored dot per line, trimmed to the
// window height.
func (m Model) renderFiles() string {
	bd := m.breakdown()
	if len(bd.Files) == 0 {
		return mutedStyle.Render("No files yet")
	}
	nameWidth := 0
	for _, f := range bd.Files {
		nameWidth = max(nameWidth, lipgloss.Width(f.Name))
	}
	dotWidth := max(m.width-nameWidth-12, 10)
	limit := max(m.height-12, 3)

	var b strings.Builder
	for i, f := range bd.Files {
		if i == limit {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("... %d more files", len(bd.Files)-limit)))
			b.WriteString("\n")
			break
		}
		fmt.Fprintf(&b, "%-*s %5s ", nameWidth, f.Name, humanize.Comma(int64(f.Lines)))
		for j, mk := range f.Markers {
			if j == dotWidth {
				b.WriteString(mutedStyle.Render("…"))
				break
			}
			b.WriteString(markerStyle(mk.Color).Render("•"))
		}
		b.WriteString("\n")
	}

	legend := make([]string, 0, len(bd.Legend))
	for _, item := range bd.Legend {
		legend = append(legend, markerStyle(item.Color).Render("■ "+item.Type))
	}
	b.WriteString(strings.Join(legend, "  "))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFooter() string {
	keys := "←/→ scrub • H/L jump • tab story • v view • q quit"
	if m.mode == ModeStory {
		keys = "↑/↓ step • g/G first/last • tab slider • v view • q quit"
	}
	return mutedStyle.Render(keys)
}
