package foreign

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Record is a named tuple: ordered field names with one value each.
type Record struct {
	Fields []string `json:"fields"`
	Values []any    `json:"values"`
}

// NewRecord pairs names and values. Both slices must have the same length.
func NewRecord(fields []string, values []any) *Record {
	return &Record{Fields: fields, Values: values}
}

// AsDict returns a field→value map. It is shallow: a nested record stays a
// *Record and must be converted on its own.
func (r *Record) AsDict() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for i, f := range r.Fields {
		if i < len(r.Values) {
			m[f] = r.Values[i]
		}
	}
	return m
}

// Get returns the value of one field.
func (r *Record) Get(field string) (any, bool) {
	for i, f := range r.Fields {
		if f == field && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return nil, false
}

func (r *Record) MarshalJSON() ([]byte, error) {
	type wire Record
	return json.Marshal(map[string]*wire{"$record": (*wire)(r)})
}

// Columns is a structured record array stored column by column.
type Columns struct {
	Fields []string         `json:"fields"`
	Data   map[string][]any `json:"data"`
}

// Len returns the number of rows.
func (c *Columns) Len() int {
	if len(c.Fields) == 0 {
		return 0
	}
	return len(c.Data[c.Fields[0]])
}

// Rows converts the columnar layout into one map per row.
func (c *Columns) Rows() ([]map[string]any, error) {
	n := c.Len()
	for _, f := range c.Fields {
		if len(c.Data[f]) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", f, len(c.Data[f]), n)
		}
	}
	rows := make([]map[string]any, n)
	for i := range rows {
		row := make(map[string]any, len(c.Fields))
		for _, f := range c.Fields {
			row[f] = c.Data[f][i]
		}
		rows[i] = row
	}
	return rows, nil
}

func (c *Columns) MarshalJSON() ([]byte, error) {
	type wire Columns
	return json.Marshal(map[string]*wire{"$columns": (*wire)(c)})
}

// DateTime is a naive calendar timestamp, the form the terminal module expects
// for date arguments.
type DateTime struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

// NewDateTime converts t to the local zone and drops the zone.
func NewDateTime(t time.Time) DateTime {
	t = t.Local()
	return DateTime{
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Microsecond: t.Nanosecond() / 1000,
	}
}

// Time interprets d in the local zone.
func (d DateTime) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second, d.Microsecond*1000, time.Local)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string][7]int{
		"$datetime": {d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second, d.Microsecond},
	})
}

// Normalize turns a value decoded from the wire (with json.Decoder.UseNumber)
// into the runtime value model.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %q: %w", x, err)
		}
		return f, nil
	case int:
		return int64(x), nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case map[string]any:
		if len(x) == 1 {
			if raw, ok := x["$record"]; ok {
				return normalizeRecord(raw)
			}
			if raw, ok := x["$columns"]; ok {
				return normalizeColumns(raw)
			}
			if raw, ok := x["$datetime"]; ok {
				return normalizeDateTime(raw)
			}
			if raw, ok := x["$float"]; ok {
				return normalizeFloat(raw)
			}
		}
		out := make(map[string]any, len(x))
		for k, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

// normalizeFloat restores the non-finite floats JSON cannot carry.
func normalizeFloat(raw any) (float64, error) {
	switch raw {
	case "nan":
		return math.NaN(), nil
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	}
	return 0, fmt.Errorf("$float is %v", raw)
}

func stringList(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("field list is %T", raw)
	}
	out := make([]string, len(list))
	for i, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("field name is %T", e)
		}
		out[i] = s
	}
	return out, nil
}

func normalizeRecord(raw any) (*Record, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("$record is %T", raw)
	}
	fields, err := stringList(m["fields"])
	if err != nil {
		return nil, fmt.Errorf("$record: %w", err)
	}
	vals, err := Normalize(m["values"])
	if err != nil {
		return nil, err
	}
	values, ok := vals.([]any)
	if !ok || len(values) != len(fields) {
		return nil, fmt.Errorf("$record: %d fields but values are %T", len(fields), vals)
	}
	return NewRecord(fields, values), nil
}

func normalizeColumns(raw any) (*Columns, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("$columns is %T", raw)
	}
	fields, err := stringList(m["fields"])
	if err != nil {
		return nil, fmt.Errorf("$columns: %w", err)
	}
	data, ok := m["data"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("$columns: data is %T", m["data"])
	}
	cols := &Columns{Fields: fields, Data: make(map[string][]any, len(fields))}
	for _, f := range fields {
		v, err := Normalize(data[f])
		if err != nil {
			return nil, err
		}
		col, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("$columns: column %q is %T", f, v)
		}
		cols.Data[f] = col
	}
	return cols, nil
}

func normalizeDateTime(raw any) (DateTime, error) {
	v, err := Normalize(raw)
	if err != nil {
		return DateTime{}, err
	}
	parts, ok := v.([]any)
	if !ok || len(parts) != 7 {
		return DateTime{}, fmt.Errorf("$datetime is %v", raw)
	}
	var n [7]int
	for i, p := range parts {
		x, ok := p.(int64)
		if !ok {
			return DateTime{}, fmt.Errorf("$datetime part %d is %T", i, p)
		}
		n[i] = int(x)
	}
	return DateTime{n[0], n[1], n[2], n[3], n[4], n[5], n[6]}, nil
}
