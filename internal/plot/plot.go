// Package plot renders groundwater series and filter depth histograms to image files.
package plot

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/aryankumar/brogw/internal/registry"
)

// ErrNoData is returned when there is nothing numeric to draw
var ErrNoData = errors.New("no numeric measurement data found")

var (
	histColor      = color.RGBA{R: 0x00, G: 0x66, B: 0xcc, A: 0xb3}
	highlightColor = color.RGBA{R: 0x00, G: 0xcc, B: 0x66, A: 0xb3}
)

// Line is one series to draw
type Line struct {
	Label  string
	Times  []time.Time
	Values []float64
}

// DefaultFileName returns the suggested plot file name for a day
func DefaultFileName(now time.Time) string {
	return "BRO_GMW_plot_" + now.Format("060102") + ".png"
}

// LinesFromSeries converts series into plot lines labelled by GMW id
func LinesFromSeries(series []*registry.Series) []Line {
	lines := make([]Line, 0, len(series))
	for _, s := range series {
		if s.Len() == 0 {
			continue
		}
		label, ok := registry.ExtractGMWID(s.Name + s.BroID)
		if !ok {
			label = s.Label()
			if label == "" {
				label = s.BroID
			}
		}

		l := Line{Label: label, Times: make([]time.Time, s.Len()), Values: make([]float64, s.Len())}
		for i, m := range s.Measurements {
			l.Times[i] = m.Time
			l.Values[i] = m.Value
		}
		lines = append(lines, l)
	}
	return lines
}

// TimeSeries draws one line per series and saves the image to path.
// The format follows the file extension (png, svg, pdf, ...).
func TimeSeries(path string, lines []Line) (int, error) {
	p := plot.New()
	p.Title.Text = "Grondwaterstand"
	p.X.Label.Text = "Datum"
	p.Y.Label.Text = "Stijghoogte (m NAP)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	drawn := 0
	for _, l := range lines {
		n := min(len(l.Times), len(l.Values))
		if n == 0 {
			continue
		}
		xys := make(plotter.XYs, n)
		for i := 0; i < n; i++ {
			xys[i].X = float64(l.Times[i].Unix())
			xys[i].Y = l.Values[i]
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return 0, fmt.Errorf("series %s: %w", l.Label, err)
		}
		line.Color = plotutil.Color(drawn)
		p.Add(line)
		p.Legend.Add(l.Label, line)
		drawn++
	}

	if drawn == 0 {
		return 0, ErrNoData
	}

	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return 0, fmt.Errorf("saving plot: %w", err)
	}
	return drawn, nil
}

// FilterHistogram draws the distribution of filter tops and saves it to path.
// Bins lying completely inside [min, max] are highlighted when both bounds are set.
func FilterHistogram(path string, values []float64, bins int, lo, hi *float64) error {
	if len(values) == 0 {
		return ErrNoData
	}
	if bins < 1 {
		bins = 20
	}

	p := plot.New()
	p.X.Label.Text = "Top Filter Depth (m NAP)"
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(plotter.Values(values), bins)
	if err != nil {
		return fmt.Errorf("building histogram: %w", err)
	}
	hist.FillColor = histColor
	hist.LineStyle.Color = color.White
	p.Add(hist)

	if lo != nil && hi != nil {
		highlight := *hist
		highlight.Bins = nil
		for _, b := range hist.Bins {
			if b.Min >= *lo && b.Max <= *hi {
				highlight.Bins = append(highlight.Bins, b)
			}
		}
		if len(highlight.Bins) > 0 {
			highlight.FillColor = highlightColor
			p.Add(&highlight)
		}
	}

	if err := p.Save(6*vg.Inch, 3*vg.Inch, path); err != nil {
		return fmt.Errorf("saving histogram: %w", err)
	}
	return nil
}
