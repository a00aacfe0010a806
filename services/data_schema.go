package services

import (
	"encoding/json"
	"sort"
	"time"
)

const DefaultBaseURL = "https://data.techforpalestine.org/api"

type Resource string

const (
	ResourceSummary                 Resource = "summary"
	ResourceKilledInGaza            Resource = "killed-in-gaza"
	ResourcePressKilledInGaza       Resource = "press-killed-in-gaza"
	ResourceCasualtiesDailyGaza     Resource = "casualties-daily-gaza"
	ResourceCasualtiesDailyWestBank Resource = "casualties-daily-west-bank"
	ResourceInfrastructureDamaged   Resource = "infrastructure-damaged"
)

type endpoint struct {
	Version string
	File    string
}

var endpoints = map[Resource]endpoint{
	ResourceSummary:                 {Version: "v3", File: "summary.json"},
	ResourceKilledInGaza:            {Version: "v2", File: "killed-in-gaza.json"},
	ResourcePressKilledInGaza:       {Version: "v2", File: "press_killed_in_gaza.json"},
	ResourceCasualtiesDailyGaza:     {Version: "v2", File: "casualties_daily.json"},
	ResourceCasualtiesDailyWestBank: {Version: "v2", File: "west_bank_daily.json"},
	ResourceInfrastructureDamaged:   {Version: "v3", File: "infrastructure-damaged.json"},
}

// Path returns the path below the base URL, e.g. "v3/summary.json".
func (r Resource) Path() (string, bool) {
	ep, ok := endpoints[r]
	if !ok {
		return "", false
	}
	return ep.Version + "/" + ep.File, true
}

func (r Resource) Valid() bool {
	_, ok := endpoints[r]
	return ok
}

func ParseResource(name string) (Resource, bool) {
	r := Resource(name)
	return r, r.Valid()
}

// Resources lists every known resource in name order.
func Resources() []Resource {
	out := make([]Resource, 0, len(endpoints))
	for r := range endpoints {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Payload is one upstream JSON document, body left untouched.
type Payload struct {
	Resource  Resource        `json:"resource"`
	ETag      string          `json:"etag,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
	Body      json.RawMessage `json:"body"`
}
