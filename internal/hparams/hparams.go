// Package hparams implements the hyperparameter mapping stored in the
// header line of a model file.
//
// Hyperparameters are a flat JSON object whose values are scalars: strings,
// booleans, integers and finite floats. They carry everything needed to
// build a skeleton model, and nothing about its weights.
//
// JSON does not preserve Go number types, so decoded numbers are normalized:
// integral literals become int64 and everything else becomes float64.
// Getters such as Int and Float accept either representation.
package hparams

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
)

// Common errors.
var (
	ErrNonScalar  = errors.New("hyperparameter value is not a scalar")
	ErrNotObject  = errors.New("hyperparameters are not a JSON object")
	ErrMissingKey = errors.New("hyperparameter not set")
	ErrWrongType  = errors.New("hyperparameter has the wrong type")
)

// Hyperparameters maps names to scalar configuration values.
type Hyperparameters map[string]any

// Parse decodes a JSON object of scalars.
func Parse(data []byte) (Hyperparameters, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse hyperparameters: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse hyperparameters: trailing data after JSON object")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, jsonKind(raw))
	}

	h := make(Hyperparameters, len(obj))
	for key, value := range obj {
		switch v := value.(type) {
		case json.Number:
			n, err := normalizeNumber(v)
			if err != nil {
				return nil, fmt.Errorf("hyperparameter %q: %w", key, err)
			}
			h[key] = n
		case string, bool:
			h[key] = v
		default:
			return nil, fmt.Errorf("%w: %q is %s", ErrNonScalar, key, jsonKind(value))
		}
	}
	return h, nil
}

// FromValue converts any JSON-encodable configuration value (typically a
// struct with json tags) into Hyperparameters.
func FromValue(v any) (Hyperparameters, error) {
	if h, ok := v.(Hyperparameters); ok {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		return h, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hyperparameters: %w", err)
	}
	return Parse(data)
}

// UnmarshalJSON implements json.Unmarshaler using Parse.
func (h *Hyperparameters) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// Validate checks that every value is a scalar that JSON can represent.
func (h Hyperparameters) Validate() error {
	for _, key := range h.Keys() {
		if err := validateScalar(h[key]); err != nil {
			return fmt.Errorf("hyperparameter %q: %w", key, err)
		}
	}
	return nil
}

func validateScalar(value any) error {
	if n, ok := value.(json.Number); ok {
		if _, err := normalizeNumber(n); err != nil {
			return fmt.Errorf("%w: %v", ErrNonScalar, err)
		}
		return nil
	}
	if value == nil {
		return fmt.Errorf("%w: null", ErrNonScalar)
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %v is not representable in JSON", ErrNonScalar, f)
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrNonScalar, value)
	}
}

// normalizeNumber converts a JSON number literal to int64 when it is integral
// and fits, and to float64 otherwise.
func normalizeNumber(n json.Number) (any, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", n, err)
	}
	return f, nil
}

// Keys returns the hyperparameter names in sorted order.
func (h Hyperparameters) Keys() []string {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether key is set.
func (h Hyperparameters) Has(key string) bool {
	_, ok := h[key]
	return ok
}

// Int returns an integer hyperparameter. Floats with an integral value are accepted.
func (h Hyperparameters) Int(key string) (int, error) {
	value, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	if n, ok := value.(json.Number); ok {
		normalized, err := normalizeNumber(n)
		if err != nil {
			return 0, fmt.Errorf("hyperparameter %q: %w", key, err)
		}
		value = normalized
	}
	v := reflect.ValueOf(value)
	switch {
	case isInt(v):
		if v.Int() < math.MinInt || v.Int() > math.MaxInt {
			return 0, fmt.Errorf("%w: %q=%d overflows int", ErrWrongType, key, v.Int())
		}
		return int(v.Int()), nil
	case isUint(v):
		if v.Uint() > math.MaxInt {
			return 0, fmt.Errorf("%w: %q=%d overflows int", ErrWrongType, key, v.Uint())
		}
		return int(v.Uint()), nil
	case isFloat(v):
		f := v.Float()
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %q=%v is not an integer", ErrWrongType, key, f)
		}
		if f < math.MinInt || f >= -math.MinInt {
			return 0, fmt.Errorf("%w: %q=%v overflows int", ErrWrongType, key, f)
		}
		return int(f), nil
	default:
		return 0, fmt.Errorf("%w: %q is %T, want integer", ErrWrongType, key, value)
	}
}

// Float returns a numeric hyperparameter as float64.
func (h Hyperparameters) Float(key string) (float64, error) {
	value, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("hyperparameter %q: %w", key, err)
		}
		return f, nil
	}
	f, ok := toFloat(reflect.ValueOf(value))
	if !ok {
		return 0, fmt.Errorf("%w: %q is %T, want number", ErrWrongType, key, value)
	}
	return f, nil
}

// Bool returns a boolean hyperparameter.
func (h Hyperparameters) Bool(key string) (bool, error) {
	value, ok := h[key]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Bool {
		return false, fmt.Errorf("%w: %q is %T, want bool", ErrWrongType, key, value)
	}
	return v.Bool(), nil
}

// String returns a string hyperparameter.
func (h Hyperparameters) String(key string) (string, error) {
	value, ok := h[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrMissingKey, key)
	}
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.String || isNumber(value) {
		return "", fmt.Errorf("%w: %q is %T, want string", ErrWrongType, key, value)
	}
	return v.String(), nil
}

// Equal compares two mappings by value: int64(5), 5 and 5.0 are all equal.
func (h Hyperparameters) Equal(other Hyperparameters) bool {
	if len(h) != len(other) {
		return false
	}
	for key, a := range h {
		b, ok := other[key]
		if !ok || !scalarEqual(a, b) {
			return false
		}
	}
	return true
}

func scalarEqual(a, b any) bool {
	if n, ok := a.(json.Number); ok {
		a, _ = normalizeNumber(n)
	}
	if n, ok := b.(json.Number); ok {
		b, _ = normalizeNumber(n)
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return va.IsValid() == vb.IsValid()
	}
	switch {
	case va.Kind() == reflect.String && vb.Kind() == reflect.String:
		return va.String() == vb.String()
	case va.Kind() == reflect.Bool && vb.Kind() == reflect.Bool:
		return va.Bool() == vb.Bool()
	case (isInt(va) || isUint(va)) && (isInt(vb) || isUint(vb)):
		return integerText(va) == integerText(vb)
	}
	fa, okA := toFloat(va)
	fb, okB := toFloat(vb)
	return okA && okB && fa == fb
}

func isNumber(value any) bool {
	_, ok := value.(json.Number)
	return ok
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func integerText(v reflect.Value) string {
	if isUint(v) {
		return strconv.FormatUint(v.Uint(), 10)
	}
	return strconv.FormatInt(v.Int(), 10)
}

func toFloat(v reflect.Value) (float64, bool) {
	switch {
	case isInt(v):
		return float64(v.Int()), true
	case isUint(v):
		return float64(v.Uint()), true
	case isFloat(v):
		return v.Float(), true
	}
	return 0, false
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}
