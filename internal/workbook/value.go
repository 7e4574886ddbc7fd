package workbook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the value types a cell can hold.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindNumber
)

// Value is a typed cell value: text, number, or null. Numeric cells keep
// their numeric semantics instead of being stringified.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
}

// NullValue returns the null cell value.
func NullValue() Value {
	return Value{Kind: KindNull}
}

// TextValue returns a text cell value.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NumberValue returns a numeric cell value.
func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

// ParseValue interprets a raw cell string: empty becomes null, numeric
// strings become numbers, everything else stays text.
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return NullValue()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return NumberValue(f)
	}
	return TextValue(raw)
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String renders the value for display. Null renders as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON encodes the value as a JSON string, number, or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return json.Marshal(v.Number)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes a JSON string, number, or null back into a Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*v = NullValue()
		return nil
	}
	// Booleans coerce to text, matching the row decoder.
	if bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("false")) {
		*v = TextValue(string(trimmed))
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = TextValue(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("cell value: %w", err)
	}
	*v = NumberValue(f)
	return nil
}

// Field is one key/value pair of a row payload.
type Field struct {
	Key   string
	Value Value
}

// Row is the original-row payload: an ordered mapping from normalized
// column header to cell value. Order follows the workbook columns.
type Row []Field

// Get returns the value for a key and whether the key is present.
func (r Row) Get(key string) (Value, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// IsBlank reports whether every cell in the row is null.
func (r Row) IsBlank() bool {
	for _, f := range r {
		if !f.Value.IsNull() {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the row as a JSON object preserving column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into a row, preserving key order.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row payload: expected object, got %v", tok)
	}

	var out Row
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("row payload: expected string key, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		var val Value
		switch t := valTok.(type) {
		case nil:
			val = NullValue()
		case string:
			val = TextValue(t)
		case json.Number:
			f, err := t.Float64()
			if err != nil {
				return fmt.Errorf("row payload key %q: %w", key, err)
			}
			val = NumberValue(f)
		case bool:
			val = TextValue(strconv.FormatBool(t))
		default:
			return fmt.Errorf("row payload key %q: unsupported value %v", key, valTok)
		}
		out = append(out, Field{Key: key, Value: val})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
