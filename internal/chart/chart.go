// Package chart turns a historical price series into a terminal line chart.
// A View is immutable: loading new data builds a fresh View that replaces the
// previous one as a whole.
package chart

import (
	"fmt"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	"github.com/alanyoungcy/btcconvert/internal/domain"
)

const (
	// AxisTitle labels the value axis; history is always BTC denominated.
	AxisTitle = "BTC"
	// AxisPrefix is prepended to value labels.
	AxisPrefix = "₿"
	// LabelLayout formats X axis dates ("Jan 2024").
	LabelLayout = "Jan 2006"

	minWidth  = 10
	minHeight = 3
	precision = 8
)

// View is a ready-to-render chart.
type View struct {
	Title  string
	Labels []string
	Prices []float64
	Min    float64
	Max    float64
}

// NewView builds the chart for series. The title is usually
// "<item> Price in BTC".
func NewView(title string, series domain.HistoricalSeries) *View {
	v := &View{
		Title:  title,
		Labels: make([]string, series.Len()),
		Prices: series.Prices(),
	}
	for i, p := range series.Points {
		v.Labels[i] = p.Date.Format(LabelLayout)
	}
	for i, p := range v.Prices {
		if i == 0 || p < v.Min {
			v.Min = p
		}
		if i == 0 || p > v.Max {
			v.Max = p
		}
	}
	return v
}

// TitleFor returns the chart heading for an item display name.
func TitleFor(displayName string) string {
	return displayName + " Price in BTC"
}

// Empty reports whether there is nothing to plot.
func (v *View) Empty() bool { return v == nil || len(v.Prices) == 0 }

// Render draws the view into a block of roughly width x height cells.
func Render(v *View, width, height int) string {
	if v.Empty() {
		if v != nil && v.Title != "" {
			return v.Title + "\n(no data for the selected range)"
		}
		return "(no data)"
	}
	width = max(width, minWidth)
	height = max(height, minHeight)

	var b strings.Builder
	b.WriteString(v.Title)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "%s %s  (min %s%s, max %s%s)\n", AxisPrefix, AxisTitle,
		AxisPrefix, formatPrice(v.Min), AxisPrefix, formatPrice(v.Max))

	data := v.Prices
	if len(data) == 1 {
		// asciigraph needs two samples to draw a line.
		data = []float64{data[0], data[0]}
	}
	b.WriteString(asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(precision),
	))
	b.WriteByte('\n')
	b.WriteString(axisLabels(v.Labels, width+precision+4))
	return b.String()
}

func axisLabels(labels []string, width int) string {
	first, last := labels[0], labels[len(labels)-1]
	if first == last {
		return first
	}
	gap := width - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	return first + strings.Repeat(" ", gap) + last
}

func formatPrice(p float64) string {
	s := fmt.Sprintf("%.8f", p)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Span returns the first and last sample dates.
func Span(series domain.HistoricalSeries) (time.Time, time.Time, bool) {
	if series.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	return series.Points[0].Date, series.Points[series.Len()-1].Date, true
}
