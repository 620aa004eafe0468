package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "null"
	}
}

// Value holds a single cell of a track row.
type Value struct {
	Kind ValueKind
	Bool bool
	Int  int64
	Str  string
}

func NullValue() Value { return Value{Kind: KindNull} }
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// ValueOf converts a value returned by database/sql into a Value. Only nulls,
// booleans, integers and text are accepted.
func ValueOf(src any) (Value, error) {
	switch v := src.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(v), nil
	case int64:
		return IntValue(v), nil
	case int32:
		return IntValue(int64(v)), nil
	case int16:
		return IntValue(int64(v)), nil
	case int:
		return IntValue(int64(v)), nil
	case string:
		return StringValue(v), nil
	case []byte:
		return StringValue(string(v)), nil
	case time.Time:
		return StringValue(v.Format(time.RFC3339Nano)), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", src)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return strconv.AppendBool(nil, v.Bool), nil
	case KindInt:
		return strconv.AppendInt(nil, v.Int, 10), nil
	case KindString:
		return json.Marshal(v.Str)
	default:
		return []byte("null"), nil
	}
}

// ResultRow is an ordered column-name to value mapping for one track.
type ResultRow struct {
	keys   []string
	values map[string]Value
}

func NewResultRow(capacity int) *ResultRow {
	return &ResultRow{
		keys:   make([]string, 0, capacity),
		values: make(map[string]Value, capacity),
	}
}

// Set stores value under key. A key that is already present keeps its position.
func (r *ResultRow) Set(key string, value Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

func (r *ResultRow) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *ResultRow) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func (r *ResultRow) Len() int {
	return len(r.keys)
}

func (r *ResultRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.values[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
