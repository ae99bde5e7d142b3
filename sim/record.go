package sim

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/rustyeddy/mt5bridge/foreign"
)

// record converts a struct with json tags into the named tuple the terminal
// module returns. Nested structs become nested records.
func record(v any) *foreign.Record {
	rv := reflect.Indirect(reflect.ValueOf(v))
	rt := rv.Type()
	fields := make([]string, 0, rt.NumField())
	values := make([]any, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		name, _, _ := strings.Cut(rt.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields = append(fields, name)
		values = append(values, plain(rv.Field(i)))
	}
	return foreign.NewRecord(fields, values)
}

func plain(f reflect.Value) any {
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int()
	case reflect.Float32, reflect.Float64:
		return f.Float()
	case reflect.Bool:
		return f.Bool()
	case reflect.String:
		return f.String()
	case reflect.Struct:
		return record(f.Interface())
	default:
		return f.Interface()
	}
}

func records[T any](items []T) []any {
	out := make([]any, len(items))
	for i := range items {
		out[i] = record(items[i])
	}
	return out
}

// columns lays rows out as a structured array, one column per field.
func columns[T any](rows []T) *foreign.Columns {
	var zero T
	proto := record(zero)
	cols := &foreign.Columns{Fields: proto.Fields, Data: make(map[string][]any, len(proto.Fields))}
	for _, f := range proto.Fields {
		cols.Data[f] = make([]any, 0, len(rows))
	}
	for i := range rows {
		r := record(rows[i])
		for j, f := range r.Fields {
			cols.Data[f] = append(cols.Data[f], r.Values[j])
		}
	}
	return cols
}

// callArgs reads a call's arguments the way Python binds them: by keyword
// first, then by position.
type callArgs struct {
	pos []any
	kw  map[string]any
}

func (a callArgs) get(i int, name string) (any, bool) {
	if v, ok := a.kw[name]; ok {
		return v, true
	}
	if i >= 0 && i < len(a.pos) {
		return a.pos[i], true
	}
	return nil, false
}

func (a callArgs) has(i int, name string) bool {
	v, ok := a.get(i, name)
	return ok && v != nil
}

func (a callArgs) str(i int, name string) (string, error) {
	v, ok := a.get(i, name)
	if !ok {
		return "", fmt.Errorf("missing %s", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s is %T, want str", name, v)
	}
	return s, nil
}

func (a callArgs) int(i int, name string) (int64, error) {
	v, ok := a.get(i, name)
	if !ok {
		return 0, fmt.Errorf("missing %s", name)
	}
	return toInt(v, name)
}

func toInt(v any, name string) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%s is %v, want int", name, x)
		}
		return int64(x), nil
	default:
		return 0, fmt.Errorf("%s is %T, want int", name, v)
	}
}

func (a callArgs) float(i int, name string) (float64, error) {
	v, ok := a.get(i, name)
	if !ok {
		return 0, fmt.Errorf("missing %s", name)
	}
	return toFloat(v, name)
}

func toFloat(v any, name string) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("%s is %T, want float", name, v)
	}
}

func (a callArgs) boolean(i int, name string, def bool) (bool, error) {
	v, ok := a.get(i, name)
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s is %T, want bool", name, v)
	}
	return b, nil
}

func (a callArgs) time(i int, name string) (time.Time, error) {
	v, ok := a.get(i, name)
	if !ok {
		return time.Time{}, fmt.Errorf("missing %s", name)
	}
	switch x := v.(type) {
	case foreign.DateTime:
		return x.Time(), nil
	case int64, int, float64:
		sec, err := toInt(x, name)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(sec, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%s is %T, want datetime", name, v)
	}
}
