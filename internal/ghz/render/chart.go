// Package render draws probability tables as grouped bar charts, either as
// styled terminal output or as a PNG file.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/qubelab/ghz/internal/ghz"
	"github.com/qubelab/ghz/internal/ghz/quantum"
)

const barWidth = 40

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// Terminal renders one panel per basis specification: a row per possible
// outcome tuple (arrows), a bar scaled to its probability, and the number.
// Specs controls panel order; every one of the 2^n tuples appears, unseen
// ones at probability 0.
func Terminal(table ghz.ProbabilityTable, specs []string, numQubits int) string {
	tuples := quantum.AllOutcomeTuples(numQubits)
	var sb strings.Builder

	for _, spec := range specs {
		dist, ok := table[spec]
		if !ok {
			continue
		}

		sb.WriteString(titleStyle.Render("basis "+spec) + "\n")
		for _, tuple := range tuples {
			p := dist.Prob(tuple)
			filled := int(p*barWidth + 0.5)
			bar := barStyle.Render(strings.Repeat("█", filled)) +
				faintStyle.Render(strings.Repeat("·", barWidth-filled))
			sb.WriteString(fmt.Sprintf("  %s %s %s\n",
				labelStyle.Render(tuple.Arrows()), bar, fmt.Sprintf("%.3f", p)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// SavePNG writes the probability table as a grouped bar chart: one colored
// bar group per basis specification, outcome tuples as up/down arrows along
// the x-axis.
func SavePNG(table ghz.ProbabilityTable, specs []string, numQubits int, path string) error {
	tuples := quantum.AllOutcomeTuples(numQubits)

	p := plot.New()
	p.Title.Text = "GHZ outcome probabilities"
	p.Y.Label.Text = "probability"
	p.Y.Min = 0

	width := vg.Points(float64(barWidth) / float64(len(specs)*len(tuples)) * 8)
	if width < vg.Points(4) {
		width = vg.Points(4)
	}

	for i, spec := range specs {
		dist, ok := table[spec]
		if !ok {
			return fmt.Errorf("%w: probability table is missing specification %s", quantum.ErrInvalidArgument, spec)
		}

		values := make(plotter.Values, len(tuples))
		for j, tuple := range tuples {
			values[j] = dist.Prob(tuple)
		}

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return err
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = width * vg.Length(i-len(specs)/2)
		p.Add(bars)
		p.Legend.Add(spec, bars)
	}

	labels := make([]string, len(tuples))
	for i, tuple := range tuples {
		labels[i] = tuple.Arrows()
	}
	p.NominalX(labels...)
	p.Legend.Top = true

	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}
