package foreign

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/rustyeddy/mt5bridge/mql"
)

// Decode fills out from a runtime value. Every field of the target struct must
// be present in the source with a compatible type; otherwise the result is an
// mql.ErrDecode error and out must not be used.
func Decode(value any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		ErrorUnset: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(unwrapHook, integralHook),
		Result:     out,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", mql.ErrDecode, err)
	}
	if r, ok := value.(*Record); ok {
		value = r.AsDict()
	}
	if err := rejectNulls(value, reflect.TypeOf(out), ""); err != nil {
		return fmt.Errorf("%w: %v", mql.ErrDecode, err)
	}
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("%w: %v", mql.ErrDecode, err)
	}
	return nil
}

// DecodeRows converts a columnar array, a list of records or a list of dicts
// into a slice of T. A nil value decodes to an empty slice.
func DecodeRows[T any](value any) ([]T, error) {
	switch v := value.(type) {
	case nil:
		return []T{}, nil
	case *Columns:
		rows, err := v.Rows()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", mql.ErrDecode, err)
		}
		out := make([]T, len(rows))
		for i, row := range rows {
			if err := Decode(row, &out[i]); err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
		}
		return out, nil
	case []any:
		out := make([]T, len(v))
		for i, e := range v {
			if err := Decode(e, &out[i]); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: expected a list, got %T", mql.ErrDecode, value)
	}
}

func unwrapHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	switch v := data.(type) {
	case *Record:
		if to.Kind() == reflect.Slice {
			return v.Values, nil
		}
		return v.AsDict(), nil
	case *Columns:
		rows, err := v.Rows()
		if err != nil {
			return nil, err
		}
		out := make([]any, len(rows))
		for i, r := range rows {
			out[i] = r
		}
		return out, nil
	}
	return data, nil
}

// integralHook refuses to truncate a float into an integer field.
func integralHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	f, ok := data.(float64)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not an integer", f)
		}
	}
	return data, nil
}

// rejectNulls walks value against t and reports the first null that would
// land in a field unable to hold it. The decoder skips nulls and would leave
// the zero value behind.
func rejectNulls(value any, t reflect.Type, path string) error {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if value == nil {
		if nullable(t) {
			return nil
		}
		if path == "" {
			return fmt.Errorf("null value for %s", t)
		}
		return fmt.Errorf("%s is null", strings.TrimSuffix(path, "."))
	}

	switch t.Kind() {
	case reflect.Struct:
		var m map[string]any
		switch v := value.(type) {
		case *Record:
			m = v.AsDict()
		case map[string]any:
			m = v
		default:
			return nil
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				continue
			}
			if name == "" {
				name = f.Name
			}
			v, ok := m[name]
			if !ok {
				continue
			}
			if err := rejectNulls(v, f.Type, path+name+"."); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		var items []any
		switch v := value.(type) {
		case []any:
			items = v
		case *Record:
			items = v.Values
		default:
			return nil
		}
		for i, e := range items {
			if err := rejectNulls(e, t.Elem(), fmt.Sprintf("%s%d.", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}
