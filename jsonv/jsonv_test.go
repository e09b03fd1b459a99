package jsonv

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroValueIsAbsent(t *testing.T) {
	var v Value
	assert.True(t, v.IsZero())
	assert.Equal(t, Invalid, v.Kind())
	assert.Equal(t, "<absent>", v.Render())
}

func TestKindAccessors(t *testing.T) {
	s, ok := NewString("hi").AsString()
	require.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = NewString("hi").AsArray()
	assert.False(t, ok)

	n, ok := NewNumber(42).AsNumber()
	require.True(t, ok)
	assert.Equal(t, float64(42), n)

	b, ok := NewBool(true).AsBool()
	require.True(t, ok)
	assert.True(t, b)
}

func TestObjectGetAndLookup(t *testing.T) {
	doc := NewObject(map[string]Value{
		"user": NewObject(map[string]Value{
			"id": NewString("u-1"),
		}),
	})

	id, ok := doc.Lookup("user", "id")
	require.True(t, ok)
	s, _ := id.AsString()
	assert.Equal(t, "u-1", s)

	_, ok = doc.Lookup("user", "missing")
	assert.False(t, ok)

	_, ok = NewString("not an object").Get("key")
	assert.False(t, ok)
}

func TestParseAndRenderRoundTrip(t *testing.T) {
	raw := []byte(`{"a":[1,"two",true,null],"b":{"c":3.5}}`)
	v, err := Parse(raw)
	require.NoError(t, err)

	arr, ok := v.Lookup("a")
	require.True(t, ok)
	elems, ok := arr.AsArray()
	require.True(t, ok)
	assert.Len(t, elems, 4)

	reparsed, err := Parse([]byte(v.Render()))
	require.NoError(t, err)
	assert.True(t, v.Equal(reparsed))
}

func TestRenderIntegersWithoutFraction(t *testing.T) {
	assert.Equal(t, "7", NewNumber(7).Render())
	assert.Equal(t, "3.5", NewNumber(3.5).Render())
}

func TestEqual(t *testing.T) {
	a := NewObject(map[string]Value{"tags": NewArray(NewString("x"), NewString("y"))})
	b := NewObject(map[string]Value{"tags": NewArray(NewString("x"), NewString("y"))})
	c := NewObject(map[string]Value{"tags": NewArray(NewString("y"), NewString("x"))})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(Value{}))
	assert.True(t, Value{}.Equal(Value{}))
	assert.False(t, NewNull().Equal(Value{}))
}

func TestMarshalEmbedded(t *testing.T) {
	type wrapper struct {
		Custom Value `json:"custom"`
	}
	out, err := json.Marshal(wrapper{Custom: NewObject(map[string]Value{"k": NewString("v")})})
	require.NoError(t, err)
	assert.JSONEq(t, `{"custom":{"k":"v"}}`, string(out))

	var back wrapper
	require.NoError(t, json.Unmarshal(out, &back))
	s, ok := back.Custom.Lookup("k")
	require.True(t, ok)
	str, _ := s.AsString()
	assert.Equal(t, "v", str)
}
