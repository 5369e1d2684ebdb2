package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextAcceptsScalars(t *testing.T) {
	var v struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
		D Text `json:"d"`
		E Text `json:"e"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":2.1,"c":null,"d":true,"e":{"k":1}}`), &v))

	assert.Equal(t, Text("x"), v.A)
	assert.Equal(t, Text("2.1"), v.B)
	assert.True(t, v.C.Empty())
	assert.Equal(t, Text("true"), v.D)
	assert.True(t, v.E.Empty())
	assert.Equal(t, "fallback", v.C.Or("fallback"))
}

func TestIntAcceptsStringsAndNumbers(t *testing.T) {
	var v struct {
		A Int `json:"a"`
		B Int `json:"b"`
		C Int `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2","b":3,"c":"deep"}`), &v))
	assert.Equal(t, Int(2), v.A)
	assert.Equal(t, Int(3), v.B)
	assert.Equal(t, Int(0), v.C)
}

func TestStrictBool(t *testing.T) {
	cases := map[string]bool{
		`true`:   true,
		`false`:  false,
		`"true"`: false,
		`1`:      false,
		`null`:   false,
	}
	for raw, want := range cases {
		var v struct {
			B StrictBool `json:"b"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"b":`+raw+`}`), &v), raw)
		assert.Equal(t, want, bool(v.B), raw)
	}
}
