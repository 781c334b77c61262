package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/alkarama/hub/internal/domain"
)

// isTokenRune reports whether r belongs inside a word.
// Combining marks stay attached so Arabic harakat do not split a word in two;
// the vocabulary strips them during normalization.
func isTokenRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// splitWords lower-cases s and splits it on every non-word rune
func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !isTokenRune(r)
	})
}

// Tokenize converts a heterogeneous text source into lower-case word tokens.
//
// Strings are split directly; string sequences are split element by element;
// a map (a malformed record field) contributes its scalar values in key order.
// nil and unsupported types produce an empty slice. The result is never nil.
func Tokenize(source any) []string {
	tokens := []string{}

	switch src := source.(type) {
	case nil:
		return tokens
	case string:
		return append(tokens, splitWords(src)...)
	case []string:
		for _, s := range src {
			tokens = append(tokens, splitWords(s)...)
		}
	case domain.TextList:
		for _, s := range src {
			tokens = append(tokens, splitWords(s)...)
		}
	case []any:
		for _, item := range src {
			if s, ok := stringify(item); ok {
				tokens = append(tokens, splitWords(s)...)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if s, ok := stringify(src[k]); ok {
				parts = append(parts, s)
			}
		}
		return append(tokens, splitWords(strings.Join(parts, " "))...)
	case fmt.Stringer:
		return append(tokens, splitWords(src.String())...)
	}

	return tokens
}

// stringify renders scalar values as text. Nested containers are skipped.
func stringify(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case fmt.Stringer:
		return val.String(), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case bool:
		return strconv.FormatBool(val), true
	}
	return "", false
}
