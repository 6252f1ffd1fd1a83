package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// DecodeError reports inbound text that is not a well-formed JSON object.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return "decode: " + e.Reason + ": " + e.Err.Error()
	}
	return "decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FieldError reports a missing or wrongly shaped field in a decoded message.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string { return fmt.Sprintf("field %q: %s", e.Key, e.Reason) }

var ErrMissingField = errors.New("missing field")

func (e *FieldError) Is(target error) bool {
	return target == ErrMissingField && e.Reason == "missing"
}

func missing(key string) error { return &FieldError{Key: key, Reason: "missing"} }

func wrongType(key, want string, got any) error {
	return &FieldError{Key: key, Reason: fmt.Sprintf("expected %s, got %T", want, got)}
}

// Message is a decoded inbound object. Numbers are kept as json.Number so
// integer fields can be range-checked without float rounding.
type Message map[string]any

// Decode parses one inbound frame.
func Decode(data []byte) (Message, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Reason: "malformed json", Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &DecodeError{Reason: "trailing data after object"}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("expected object, got %T", v)}
	}
	return Message(obj), nil
}

// Get returns the raw value for key. JSON null counts as absent.
func (m Message) Get(key string) (any, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Action returns the action tag, empty when absent or not a string.
func (m Message) Action() Action {
	s, _ := m["action"].(string)
	return Action(s)
}

func (m Message) Bool(key string) (bool, error) {
	v, ok := m.Get(key)
	if !ok {
		return false, missing(key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, wrongType(key, "bool", v)
	}
	return b, nil
}

func (m Message) String(key string) (string, error) {
	v, ok := m.Get(key)
	if !ok {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// StringOr is String with a default for an absent field.
func (m Message) StringOr(key, def string) (string, error) {
	if _, ok := m.Get(key); !ok {
		return def, nil
	}
	return m.String(key)
}

// Int reads an integer field and checks it lies in [lo, hi].
func (m Message) Int(key string, lo, hi int64) (int64, error) {
	v, ok := m.Get(key)
	if !ok {
		return 0, missing(key)
	}
	return AsInt(key, v, lo, hi)
}

// IntOr is Int with a default for an absent field.
func (m Message) IntOr(key string, def, lo, hi int64) (int64, error) {
	if _, ok := m.Get(key); !ok {
		return def, nil
	}
	return m.Int(key, lo, hi)
}

// Ints reads an optional array of integers in [lo, hi]; absent yields nil.
func (m Message) Ints(key string, lo, hi int64) ([]int64, error) {
	items, err := m.Array(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]int64, 0, len(items))
	for i, it := range items {
		n, err := AsInt(fmt.Sprintf("%s[%d]", key, i), it, lo, hi)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// Array reads an optional array field; absent yields nil without error.
func (m Message) Array(key string) ([]any, error) {
	v, ok := m.Get(key)
	if !ok {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(key, "array", v)
	}
	return items, nil
}

// Object converts a nested value into a Message.
func Object(key string, v any) (Message, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, wrongType(key, "object", v)
	}
	return Message(obj), nil
}

// AsInt converts a decoded number into an integer within [lo, hi].
func AsInt(key string, v any, lo, hi int64) (int64, error) {
	var n int64
	switch x := v.(type) {
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return 0, &FieldError{Key: key, Reason: "not an integer: " + x.String()}
		}
		n = i
	case float64:
		if x != math.Trunc(x) {
			return 0, &FieldError{Key: key, Reason: fmt.Sprintf("not an integer: %v", x)}
		}
		n = int64(x)
	case int:
		n = int64(x)
	case int64:
		n = x
	default:
		return 0, wrongType(key, "integer", v)
	}
	if n < lo || n > hi {
		return 0, &FieldError{Key: key, Reason: fmt.Sprintf("%d out of range [%d, %d]", n, lo, hi)}
	}
	return n, nil
}
