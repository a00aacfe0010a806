package plot

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Nxdus/casualty-api/services"
	"github.com/Nxdus/casualty-api/stats"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderDailyCasualtiesPNG(t *testing.T) {
	records := []byte(`[{"report_date":"2024-01-01","injured":10},{"report_date":"2024-01-02","injured":20}]`)

	var buf bytes.Buffer
	if err := RenderDailyCasualties(records, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("expected png output")
	}
}

func TestRenderDailyCasualtiesSVGLabels(t *testing.T) {
	records := []byte(`[{"report_date":"2024-01-01","injured":10},{"report_date":"2024-01-02","injured":20}]`)

	var buf bytes.Buffer
	if err := RenderDailyCasualties(records, &buf, WithFormat("svg")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{DailyTitle, DailyXLabel, DailyYLabel} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected svg to contain %q", want)
		}
	}
}

func TestRenderDailyCasualtiesSchemaError(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDailyCasualties([]byte(`[{"report_date":"2024-01-01"}]`), &buf)
	if !services.IsSchema(err) {
		t.Fatalf("expected schema error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected nothing written on error")
	}
}

func TestNewDailyPlotUsesDateAxis(t *testing.T) {
	points, err := stats.ParseDailyCasualties([]byte(`[{"report_date":"2024-01-01","injured":10},{"report_date":"2024-01-02","injured":20}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := newDailyPlot(points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X.Min != float64(points[0].Date.Unix()) || p.X.Max != float64(points[1].Date.Unix()) {
		t.Fatalf("expected x range to span both dates, got [%v, %v]", p.X.Min, p.X.Max)
	}
	if p.Y.Min != 10 || p.Y.Max != 20 {
		t.Fatalf("expected y range [10, 20], got [%v, %v]", p.Y.Min, p.Y.Max)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	points := []stats.DailyPoint{{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Injured: 1}}

	var buf bytes.Buffer
	if err := RenderPoints(points, &buf, WithFormat("bmp")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestRenderEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDailyCasualties([]byte(`[]`), &buf); !errors.Is(err, stats.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}
