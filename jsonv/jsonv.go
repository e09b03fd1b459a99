// Package jsonv provides a closed, immutable representation of a JSON value
// (null, bool, number, string, array, object). It is used for the free-form
// parts of a credential — custom claims and provider profile documents —
// where the shape is only known at runtime and every extraction site needs
// to report precisely what it found when the shape is wrong.
package jsonv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Kind identifies which JSON kind a Value holds.
type Kind int

const (
	// Invalid is the kind of the zero Value and means "no value present".
	Invalid Kind = iota
	Null
	Bool
	Number
	String
	Array
	Object
)

// String returns the kind name as used in error messages.
func (k Kind) String() string {
	switch k {
	case Invalid:
		return "absent"
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	}
	return "unknown"
}

// Value holds a single JSON value of any kind. The zero Value is "absent",
// distinct from JSON null. Values are treated as immutable; do not mutate
// slices or maps obtained from accessors.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	a    []Value
	o    map[string]Value
}

// NewNull returns the JSON null value.
func NewNull() Value { return Value{kind: Null} }

// NewBool returns a JSON boolean.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewNumber returns a JSON number.
func NewNumber(n float64) Value { return Value{kind: Number, n: n} }

// NewString returns a JSON string.
func NewString(s string) Value { return Value{kind: String, s: s} }

// NewArray returns a JSON array holding the given elements.
func NewArray(elems ...Value) Value {
	a := make([]Value, len(elems))
	copy(a, elems)
	return Value{kind: Array, a: a}
}

// NewObject returns a JSON object holding a copy of the given members.
func NewObject(members map[string]Value) Value {
	o := make(map[string]Value, len(members))
	for k, v := range members {
		o[k] = v
	}
	return Value{kind: Object, o: o}
}

// Parse decodes raw JSON into a Value.
func Parse(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsZero reports whether the value is absent (the zero Value).
func (v Value) IsZero() bool { return v.kind == Invalid }

// AsBool returns the boolean payload, with ok=false if the value is not a
// bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == Bool }

// AsNumber returns the numeric payload, with ok=false if the value is not a
// number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == Number }

// AsString returns the string payload, with ok=false if the value is not a
// string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == String }

// AsArray returns the element slice, with ok=false if the value is not an
// array.
func (v Value) AsArray() ([]Value, bool) { return v.a, v.kind == Array }

// AsObject returns the member map, with ok=false if the value is not an
// object.
func (v Value) AsObject() (map[string]Value, bool) { return v.o, v.kind == Object }

// Get returns the named member of an object value. ok is false if the value
// is not an object or the member is missing.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	m, ok := v.o[key]
	return m, ok
}

// Lookup walks a dotted path ("user.id") through nested objects. ok is false
// as soon as a segment is missing or a non-object is traversed.
func (v Value) Lookup(path ...string) (Value, bool) {
	cur := v
	for _, p := range path {
		next, ok := cur.Get(p)
		if !ok {
			return Value{}, false
		}
		cur = next
	}
	return cur, true
}

// Render returns a compact JSON rendering of the value, suitable for error
// messages. Absent values render as "<absent>".
func (v Value) Render() string {
	if v.kind == Invalid {
		return "<absent>"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<unrenderable: %v>", err)
	}
	return string(b)
}

// Equal reports deep equality. Absent values are only equal to other absent
// values.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Invalid, Null:
		return true
	case Bool:
		return v.b == other.b
	case Number:
		return v.n == other.n
	case String:
		return v.s == other.s
	case Array:
		if len(v.a) != len(other.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equal(other.a[i]) {
				return false
			}
		}
		return true
	case Object:
		if len(v.o) != len(other.o) {
			return false
		}
		for k, m := range v.o {
			om, ok := other.o[k]
			if !ok || !m.Equal(om) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON implements json.Marshaler. Absent values marshal as null so a
// zero Value embedded in a larger document stays valid JSON.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case Invalid, Null:
		return []byte("null"), nil
	case Bool:
		return json.Marshal(v.b)
	case Number:
		// Render integers without an exponent or trailing fraction.
		if v.n == float64(int64(v.n)) {
			return []byte(strconv.FormatInt(int64(v.n), 10)), nil
		}
		return json.Marshal(v.n)
	case String:
		return json.Marshal(v.s)
	case Array:
		buf := bytes.Buffer{}
		buf.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case Object:
		keys := make([]string, 0, len(v.o))
		for k := range v.o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf := bytes.Buffer{}
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(k)
			buf.Write(kb)
			buf.WriteByte(':')
			b, err := v.o[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("jsonv: cannot marshal kind %d", v.kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, err
		}
		return NewNumber(f), nil
	case string:
		return NewString(t), nil
	case []interface{}:
		elems := make([]Value, len(t))
		for i, e := range t {
			v, err := fromInterface(e)
			if err != nil {
				return Value{}, err
			}
			elems[i] = v
		}
		return Value{kind: Array, a: elems}, nil
	case map[string]interface{}:
		members := make(map[string]Value, len(t))
		for k, e := range t {
			v, err := fromInterface(e)
			if err != nil {
				return Value{}, err
			}
			members[k] = v
		}
		return Value{kind: Object, o: members}, nil
	}
	return Value{}, fmt.Errorf("jsonv: unsupported value %T", raw)
}
