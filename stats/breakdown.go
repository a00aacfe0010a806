package stats

import (
	"sort"
	"strings"

	"github.com/Nxdus/casualty-api/services"
	"github.com/valyala/fastjson"
)

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var sexNames = map[string]string{
	"m": "male",
	"f": "female",
}

// CountBySex groups the killed-in-gaza list by its sex field. Records with
// an empty or missing value are counted as "unknown".
func CountBySex(records []byte) ([]NameCount, error) {
	return countBy(records, "sex", func(val string) string {
		if name, ok := sexNames[strings.ToLower(val)]; ok {
			return name
		}
		return val
	})
}

func countBy(records []byte, key string, label func(string) string) ([]NameCount, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(records)
	if err != nil {
		return nil, &services.Error{Op: "stats.count_by", Kind: services.KindDecode, Err: err}
	}

	items, err := v.Array()
	if err != nil {
		return nil, &services.Error{Op: "stats.count_by", Kind: services.KindSchema, Err: err}
	}

	temp := make(map[string]*NameCount)
	for _, item := range items {
		name := strings.TrimSpace(string(item.GetStringBytes(key)))
		if name == "" {
			name = "unknown"
		} else {
			name = label(name)
		}

		k := strings.ToLower(name)
		if existing, ok := temp[k]; ok {
			existing.Count++
		} else {
			temp[k] = &NameCount{Name: name, Count: 1}
		}
	}

	result := make([]NameCount, 0, len(temp))
	for _, v := range temp {
		result = append(result, *v)
	}

	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}
