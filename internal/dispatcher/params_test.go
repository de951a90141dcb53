package dispatcher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsString(t *testing.T) {
	p := Params{
		"name":  "Alice",
		"count": float64(3),
		"id":    7,
	}

	s, ok := p.String("name")
	assert.True(t, ok)
	assert.Equal(t, "Alice", s)

	s, ok = p.String("count")
	assert.True(t, ok)
	assert.Equal(t, "3", s)

	_, ok = p.String("missing")
	assert.False(t, ok)
}

func TestParamsText(t *testing.T) {
	p := Params{
		"name":  "  Alice  ",
		"blank": "   ",
		"nil":   nil,
	}

	s, ok := p.Text("name")
	assert.True(t, ok)
	assert.Equal(t, "Alice", s)

	// Blank and nil values count as absent
	_, ok = p.Text("blank")
	assert.False(t, ok)
	_, ok = p.Text("nil")
	assert.False(t, ok)
	_, ok = p.Text("missing")
	assert.False(t, ok)
}

func TestParamsID(t *testing.T) {
	p := Params{
		"int":      3,
		"int64":    int64(4),
		"float":    float64(5),
		"fraction": 5.5,
		"string":   " 6 ",
		"number":   json.Number("7"),
		"garbage":  "abc",
	}

	for key, want := range map[string]int64{"int": 3, "int64": 4, "float": 5, "string": 6, "number": 7} {
		id, ok := p.ID(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, id, key)
	}

	for _, key := range []string{"fraction", "garbage", "missing"} {
		_, ok := p.ID(key)
		assert.False(t, ok, key)
	}
}

func TestParamsFromDecodedJSON(t *testing.T) {
	// Parameter bags arrive from json.Unmarshal of model output, where every
	// number is a float64
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"id": 12, "name": "Bob"}`), &raw))

	p := Params(raw)

	id, ok := p.ID("id")
	assert.True(t, ok)
	assert.Equal(t, int64(12), id)

	name, ok := p.Text("name")
	assert.True(t, ok)
	assert.Equal(t, "Bob", name)
}
