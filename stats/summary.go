package stats

import (
	"errors"
	"strings"

	"github.com/Nxdus/casualty-api/services"
	"github.com/valyala/fastjson"
)

var (
	gazaKilledPath     = []string{"gaza", "killed", "total"}
	westBankKilledPath = []string{"west_bank", "killed", "total"}
)

// TotalKilled sums gaza.killed.total and west_bank.killed.total from a
// summary document.
func TotalKilled(summary []byte) (int64, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(summary)
	if err != nil {
		return 0, &services.Error{Op: "stats.total_killed", Kind: services.KindDecode, Resource: services.ResourceSummary, Err: err}
	}

	gaza, err := nonNegativeInt(v, "stats.total_killed", gazaKilledPath...)
	if err != nil {
		return 0, err
	}
	westBank, err := nonNegativeInt(v, "stats.total_killed", westBankKilledPath...)
	if err != nil {
		return 0, err
	}

	return gaza + westBank, nil
}

func nonNegativeInt(v *fastjson.Value, op string, path ...string) (int64, error) {
	field := strings.Join(path, ".")

	f := v.Get(path...)
	if f == nil {
		return 0, services.SchemaError(op, field, nil)
	}

	n, err := f.Int64()
	if err != nil {
		return 0, services.SchemaError(op, field, err)
	}
	if n < 0 {
		return 0, services.SchemaError(op, field, errors.New("must not be negative"))
	}
	return n, nil
}

// optionalInt reads an integer that may be absent or null, in which case ok is false.
func optionalInt(v *fastjson.Value, op string, key string) (int64, bool, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return 0, false, nil
	}
	n, err := f.Int64()
	if err != nil {
		return 0, false, services.SchemaError(op, key, err)
	}
	return n, true, nil
}
