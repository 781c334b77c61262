package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var jsonNull = []byte("null")

// RecordID is a record identifier from the store.
// json-server hands out numeric ids for generated records and keeps string ids
// for seeded ones, so both forms are accepted.
type RecordID string

// UnmarshalJSON accepts a JSON string or number
func (id *RecordID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*id = ""
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("record id must be a string or number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// String returns the id as a plain string
func (id RecordID) String() string {
	return string(id)
}

// Amount is a money figure on a project. The admin form posts parseFloat
// output, so older records may hold a numeric string, an empty string or null;
// anything that is not a number reads as zero.
type Amount float64

// UnmarshalJSON accepts a JSON number or a numeric string
func (a *Amount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		trimmed = []byte(strings.TrimSpace(s))
	}

	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// TextList is a list-of-strings field that the store may hold either as an
// array or as a single comma-separated string ("medical, surgery").
// Decoding resolves both forms to a flat list once, at ingestion.
type TextList []string

// UnmarshalJSON accepts a string, an array, null, or (best effort) any other JSON value
func (l *TextList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*l = TextList{}
		return nil
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*l = ParseTextList(raw)
	return nil
}

// MarshalJSON always emits an array
func (l TextList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// String joins the list back into its comma-separated form
func (l TextList) String() string {
	return strings.Join(l, ", ")
}

// ParseTextList normalizes a decoded JSON value into a TextList.
// Strings are split on commas; arrays keep one entry per scalar element;
// objects contribute their scalar values in key order. Anything else is empty.
func ParseTextList(v any) TextList {
	out := TextList{}

	switch val := v.(type) {
	case nil:
		return out
	case string:
		return SplitCSV(val)
	case []string:
		for _, s := range val {
			out = appendTrimmed(out, s)
		}
	case []any:
		for _, item := range val {
			if s, ok := scalarText(item); ok {
				out = appendTrimmed(out, s)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := scalarText(val[k]); ok {
				out = append(out, SplitCSV(s)...)
			}
		}
	default:
		if s, ok := scalarText(val); ok {
			out = appendTrimmed(out, s)
		}
	}

	return out
}

// SplitCSV splits a comma-separated string, trimming fragments and dropping empty ones
func SplitCSV(s string) TextList {
	out := TextList{}
	for _, part := range strings.Split(s, ",") {
		out = appendTrimmed(out, part)
	}
	return out
}

func appendTrimmed(list TextList, s string) TextList {
	s = strings.TrimSpace(s)
	if s == "" {
		return list
	}
	return append(list, s)
}

// scalarText renders JSON scalars as text; objects and arrays are rejected
func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	}
	return "", false
}

// OneOrMany decodes either a single JSON object or an array of them.
// Callers of the admin screens sometimes send a bare record where a list is expected.
type OneOrMany[T any] []T

// UnmarshalJSON wraps a lone object as a one-element slice
func (m *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*m = OneOrMany[T]{}
		return nil
	}

	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		if many == nil {
			many = []T{}
		}
		*m = many
		return nil
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*m = OneOrMany[T]{one}
	return nil
}
