// Package plot renders daily casualty series as line charts.
package plot

import (
	"io"

	"github.com/Nxdus/casualty-api/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	DailyTitle  = "Daily Casualties in Gaza"
	DailyXLabel = "Date"
	DailyYLabel = "Number of Casualties"
)

type options struct {
	width  vg.Length
	height vg.Length
	format string
}

type Option func(*options)

// WithSize sets the canvas size. Defaults to 10x5 inches.
func WithSize(width, height vg.Length) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithFormat picks the image format: png, svg, pdf, jpg, eps or tiff.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// RenderDailyCasualties parses a daily casualty series and writes the
// injured-by-date chart to w.
func RenderDailyCasualties(records []byte, w io.Writer, opts ...Option) error {
	points, err := stats.ParseDailyCasualties(records)
	if err != nil {
		return err
	}
	return RenderPoints(points, w, opts...)
}

func RenderPoints(points []stats.DailyPoint, w io.Writer, opts ...Option) error {
	if len(points) == 0 {
		return stats.ErrEmptySeries
	}

	o := options{
		width:  10 * vg.Inch,
		height: 5 * vg.Inch,
		format: "png",
	}
	for _, opt := range opts {
		opt(&o)
	}

	p, err := newDailyPlot(points)
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(o.width, o.height, o.format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func newDailyPlot(points []stats.DailyPoint) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = DailyTitle
	p.X.Label.Text = DailyXLabel
	p.Y.Label.Text = DailyYLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = float64(pt.Date.Unix())
		xys[i].Y = float64(pt.Injured)
	}

	line, markers, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, err
	}
	p.Add(line, markers)
	return p, nil
}
