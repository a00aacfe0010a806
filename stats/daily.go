package stats

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nxdus/casualty-api/services"
	"github.com/valyala/fastjson"
)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// DailyPoint is one parsed day of a daily casualty series. Optional
// counters are zero when the upstream omits them.
type DailyPoint struct {
	Date       time.Time `json:"report_date"`
	Injured    int64     `json:"injured"`
	Killed     int64     `json:"killed"`
	KilledCum  int64     `json:"killed_cum"`
	InjuredCum int64     `json:"injured_cum"`
}

// ParseDailyCasualties parses a daily series where every record must carry
// report_date and injured. Server order is kept.
func ParseDailyCasualties(records []byte) ([]DailyPoint, error) {
	return parseDaily(records, "stats.parse_daily", true)
}

// ParseDailyReports is ParseDailyCasualties without the injured requirement,
// for series such as the West Bank one that only publish cumulative counts.
func ParseDailyReports(records []byte) ([]DailyPoint, error) {
	return parseDaily(records, "stats.parse_daily_reports", false)
}

func parseDaily(records []byte, op string, requireInjured bool) ([]DailyPoint, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(records)
	if err != nil {
		return nil, &services.Error{Op: op, Kind: services.KindDecode, Err: err}
	}

	items, err := v.Array()
	if err != nil {
		return nil, &services.Error{Op: op, Kind: services.KindSchema, Err: err}
	}

	points := make([]DailyPoint, 0, len(items))
	for i, item := range items {
		pt, err := parseDailyItem(item, op, requireInjured)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		points = append(points, pt)
	}
	return points, nil
}

func parseDailyItem(item *fastjson.Value, op string, requireInjured bool) (DailyPoint, error) {
	raw := item.Get("report_date")
	if raw == nil {
		return DailyPoint{}, services.SchemaError(op, "report_date", nil)
	}
	s, err := raw.StringBytes()
	if err != nil {
		return DailyPoint{}, services.SchemaError(op, "report_date", err)
	}
	date, ok := parseDate(string(s))
	if !ok {
		return DailyPoint{}, services.SchemaError(op, "report_date", fmt.Errorf("unparseable date %q", s))
	}

	pt := DailyPoint{Date: date}

	if requireInjured {
		if pt.Injured, err = nonNegativeInt(item, op, "injured"); err != nil {
			return DailyPoint{}, err
		}
	} else if pt.Injured, _, err = optionalInt(item, op, "injured"); err != nil {
		return DailyPoint{}, err
	}

	if pt.Killed, _, err = optionalInt(item, op, "killed"); err != nil {
		return DailyPoint{}, err
	}
	if pt.KilledCum, _, err = optionalInt(item, op, "killed_cum"); err != nil {
		return DailyPoint{}, err
	}
	if pt.InjuredCum, _, err = optionalInt(item, op, "injured_cum"); err != nil {
		return DailyPoint{}, err
	}
	return pt, nil
}

func parseDate(val string) (time.Time, bool) {
	val = strings.TrimSpace(val)
	if val == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var ErrEmptySeries = errors.New("empty daily series")

// Latest returns the last point as delivered by the server.
func Latest(points []DailyPoint) (DailyPoint, error) {
	if len(points) == 0 {
		return DailyPoint{}, ErrEmptySeries
	}
	return points[len(points)-1], nil
}
