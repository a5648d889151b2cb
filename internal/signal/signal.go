// Package signal defines the behavioral signal map and its explicit
// optional value type. Absence of a signal is semantically distinct from
// zero and must survive every stage of the pipeline: a missing signal is
// a missing signal, never 0.
package signal

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind discriminates the closed set of signal value types.
type Kind string

const (
	KindAbsent   Kind = "absent"
	KindNumber   Kind = "number"
	KindBool     Kind = "bool"
	KindCategory Kind = "category"
)

// Value is an explicit optional signal value. The zero Value is absent.
type Value struct {
	kind     Kind
	number   float64
	boolean  bool
	category string
}

// Absent returns the absent value.
func Absent() Value {
	return Value{kind: KindAbsent}
}

// Number wraps a numeric signal value.
func Number(v float64) Value {
	return Value{kind: KindNumber, number: v}
}

// Bool wraps a boolean signal value.
func Bool(v bool) Value {
	return Value{kind: KindBool, boolean: v}
}

// Category wraps a categorical signal value.
func Category(v string) Value {
	return Value{kind: KindCategory, category: v}
}

// Kind returns the value's kind; the zero Value reports KindAbsent.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindAbsent
	}
	return v.kind
}

// IsAbsent reports whether no value is present.
func (v Value) IsAbsent() bool {
	return v.Kind() == KindAbsent
}

// AsNumber returns the numeric value; ok is false for any other kind.
func (v Value) AsNumber() (float64, bool) {
	return v.number, v.Kind() == KindNumber
}

// AsBool returns the boolean value; ok is false for any other kind.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.Kind() == KindBool
}

// AsCategory returns the categorical value; ok is false for any other kind.
func (v Value) AsCategory() (string, bool) {
	return v.category, v.Kind() == KindCategory
}

// Equal reports kind-and-value equality.
func (v Value) Equal(o Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNumber:
		return v.number == o.number
	case KindBool:
		return v.boolean == o.boolean
	case KindCategory:
		return v.category == o.category
	}
	return true // both absent
}

// String renders the value for audit evidence and logs.
func (v Value) String() string {
	switch v.Kind() {
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindCategory:
		return v.category
	}
	return "absent"
}

// valueJSON is the wire form of a Value.
type valueJSON struct {
	Kind     Kind     `json:"kind"`
	Number   *float64 `json:"number,omitempty"`
	Bool     *bool    `json:"bool,omitempty"`
	Category *string  `json:"category,omitempty"`
}

// MarshalJSON encodes the value with an explicit kind tag so that
// absent round-trips as absent, never as zero.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.Kind()}
	switch v.Kind() {
	case KindNumber:
		out.Number = &v.number
	case KindBool:
		out.Bool = &v.boolean
	case KindCategory:
		out.Category = &v.category
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the tagged wire form.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.Kind {
	case KindAbsent, "":
		*v = Absent()
	case KindNumber:
		if in.Number == nil {
			return fmt.Errorf("signal value kind %q missing number", in.Kind)
		}
		*v = Number(*in.Number)
	case KindBool:
		if in.Bool == nil {
			return fmt.Errorf("signal value kind %q missing bool", in.Kind)
		}
		*v = Bool(*in.Bool)
	case KindCategory:
		if in.Category == nil {
			return fmt.Errorf("signal value kind %q missing category", in.Kind)
		}
		*v = Category(*in.Category)
	default:
		return fmt.Errorf("unknown signal value kind %q", in.Kind)
	}
	return nil
}

// Map holds the flat signal set for one (user, window) evaluation.
// Lookups of missing names return the absent value.
type Map map[string]Value

// Get returns the named signal, or absent when the name is missing.
func (m Map) Get(name string) Value {
	if v, ok := m[name]; ok {
		return v
	}
	return Absent()
}

// Names returns the signal names in sorted order so that no caller
// ever iterates the map in nondeterministic order.
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
