package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind tags the representation carried by a Value.
type ValueKind uint8

const (
	// KindString values are submitted verbatim (flat taxonomies, slugs).
	KindString ValueKind = iota
	// KindNumeric values are submitted as base-10 integers (hierarchical
	// taxonomies, term identifiers).
	KindNumeric
)

func (k ValueKind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	default:
		return "string"
	}
}

// Value is the submitted value of a radio option. The zero Value is the empty
// string value.
type Value struct {
	kind ValueKind
	str  string
	num  int64
}

// StringValue builds a string-tagged value.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumericValue builds a numeric-tagged value.
func NumericValue(n int64) Value {
	return Value{kind: KindNumeric, num: n}
}

// Kind reports the tag.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Int64 returns the numeric payload when the value is numeric.
func (v Value) Int64() (int64, bool) {
	if v.kind != KindNumeric {
		return 0, false
	}
	return v.num, true
}

// Text returns the string payload when the value is a string.
func (v Value) Text() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// IsEmpty reports whether the value selects no term: numeric zero or the
// empty string.
func (v Value) IsEmpty() bool {
	if v.kind == KindNumeric {
		return v.num == 0
	}
	return v.str == ""
}

// String renders the value exactly as a form field submits it.
func (v Value) String() string {
	if v.kind == KindNumeric {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// MarshalJSON keeps the tag visible: numbers for numeric values, strings
// otherwise.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumeric {
		return []byte(strconv.FormatInt(v.num, 10)), nil
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts a JSON number or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("taxonomy: decode string value: %w", err)
		}
		*v = StringValue(s)
		return nil
	}
	n, err := strconv.ParseInt(string(trimmed), 10, 64)
	if err != nil {
		return fmt.Errorf("taxonomy: decode numeric value: %w", err)
	}
	*v = NumericValue(n)
	return nil
}

// ParseValue interprets a submitted form value for a taxonomy shape.
// Hierarchical submissions must be base-10 integers; flat submissions are
// taken verbatim.
func ParseValue(raw string, hierarchical bool) (Value, error) {
	if !hierarchical {
		return StringValue(raw), nil
	}
	if raw == "" {
		return NumericValue(0), nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return Value{}, fmt.Errorf("%w: term id %q: %v", ErrInvalidValue, raw, err)
	}
	return NumericValue(n), nil
}

// Equal reports whether both values carry the same tag and payload.
func (v Value) Equal(other Value) bool {
	return v == other
}
