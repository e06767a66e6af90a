package hparams

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNormalizesNumbers(t *testing.T) {
	h, err := Parse([]byte(`{"size":5,"lr":0.5,"big":1e3,"use_tanh":true,"name":"mlp"}`))
	require.NoError(t, err)

	assert.Equal(t, int64(5), h["size"])
	assert.Equal(t, 0.5, h["lr"])
	assert.Equal(t, float64(1000), h["big"])
	assert.Equal(t, true, h["use_tanh"])
	assert.Equal(t, "mlp", h["name"])
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, input := range []string{`[1,2]`, `5`, `"x"`, `null`} {
		_, err := Parse([]byte(input))
		assert.ErrorIs(t, err, ErrNotObject, input)
	}
}

func TestParseRejectsNestedValues(t *testing.T) {
	for _, input := range []string{`{"a":{"b":1}}`, `{"a":[1]}`, `{"a":null}`} {
		_, err := Parse([]byte(input))
		assert.ErrorIs(t, err, ErrNonScalar, input)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	for _, input := range []string{``, `{`, `{"a":1}}`, `not json`, `{"a":1} {"b":2}`} {
		_, err := Parse([]byte(input))
		assert.Error(t, err, input)
	}
}

func TestValidate(t *testing.T) {
	type activation string
	ok := Hyperparameters{
		"i": 1, "u": uint8(2), "f": float32(0.25), "b": false, "s": "x",
		"named": activation("relu"), "n": json.Number("3"),
	}
	require.NoError(t, ok.Validate())

	bad := []Hyperparameters{
		{"nan": math.NaN()},
		{"inf": math.Inf(1)},
		{"slice": []int{1}},
		{"map": map[string]int{"a": 1}},
		{"nil": nil},
		{"func": func() {}},
		{"num": json.Number("abc")},
	}
	for _, h := range bad {
		assert.ErrorIs(t, h.Validate(), ErrNonScalar, "%v", h.Keys())
	}
}

func TestFromValueStruct(t *testing.T) {
	type config struct {
		Size    int  `json:"size"`
		UseTanh bool `json:"use_tanh"`
	}
	h, err := FromValue(config{Size: 5, UseTanh: true})
	require.NoError(t, err)
	assert.True(t, h.Equal(Hyperparameters{"size": 5, "use_tanh": true}))

	_, err = FromValue([]int{1, 2})
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestGetters(t *testing.T) {
	h := Hyperparameters{
		"size": int64(5), "width": 10.0, "ratio": 0.5, "use_tanh": true,
		"name": "mlp", "num": json.Number("7"), "huge": uint64(math.MaxUint64),
	}

	size, err := h.Int("size")
	require.NoError(t, err)
	assert.Equal(t, 5, size)

	width, err := h.Int("width")
	require.NoError(t, err)
	assert.Equal(t, 10, width)

	num, err := h.Int("num")
	require.NoError(t, err)
	assert.Equal(t, 7, num)

	_, err = h.Int("ratio")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = h.Int("huge")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = h.Int("missing")
	assert.ErrorIs(t, err, ErrMissingKey)

	ratio, err := h.Float("ratio")
	require.NoError(t, err)
	assert.Equal(t, 0.5, ratio)

	useTanh, err := h.Bool("use_tanh")
	require.NoError(t, err)
	assert.True(t, useTanh)

	_, err = h.Bool("name")
	assert.ErrorIs(t, err, ErrWrongType)

	name, err := h.String("name")
	require.NoError(t, err)
	assert.Equal(t, "mlp", name)

	_, err = h.String("num")
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestEqualByValue(t *testing.T) {
	a := Hyperparameters{"size": 5, "lr": float32(0.5), "use_tanh": true, "name": "x"}
	b := Hyperparameters{"size": int64(5), "lr": 0.5, "use_tanh": true, "name": "x"}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	assert.False(t, a.Equal(Hyperparameters{"size": 5}))
	assert.False(t, a.Equal(Hyperparameters{"size": 6, "lr": 0.5, "use_tanh": true, "name": "x"}))
	assert.False(t, a.Equal(Hyperparameters{"size": "5", "lr": 0.5, "use_tanh": true, "name": "x"}))
	assert.False(t, a.Equal(Hyperparameters{"size": 5, "lr": 0.5, "use_tanh": 1, "name": "x"}))
}

func TestUnmarshalJSON(t *testing.T) {
	var wrapper struct {
		Params Hyperparameters `json:"params"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"params":{"depth":3}}`), &wrapper))
	assert.Equal(t, int64(3), wrapper.Params["depth"])

	err := json.Unmarshal([]byte(`{"params":{"depth":[3]}}`), &wrapper)
	assert.ErrorIs(t, err, ErrNonScalar)
}

func TestKeysSorted(t *testing.T) {
	h := Hyperparameters{"width": 1, "depth": 2, "size": 3}
	assert.Equal(t, []string{"depth", "size", "width"}, h.Keys())
}

func TestIntRange(t *testing.T) {
	h := Hyperparameters{
		"max":       int64(math.MaxInt),
		"huge_uint": uint64(math.MaxUint64),
		"huge_flt":  1e19,
		"edge_flt":  -float64(math.MinInt),
		"nan":       math.NaN(),
	}
	n, err := h.Int("max")
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, n)

	for _, key := range []string{"huge_uint", "huge_flt", "edge_flt", "nan"} {
		_, err := h.Int(key)
		assert.ErrorIs(t, err, ErrWrongType, key)
	}

	if strconv.IntSize == 32 {
		_, err := Hyperparameters{"n": int64(1) << 40}.Int("n")
		assert.ErrorIs(t, err, ErrWrongType)
	}
}
