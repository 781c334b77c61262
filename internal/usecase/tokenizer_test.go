package usecase

import (
	"reflect"
	"testing"

	"github.com/alkarama/hub/internal/domain"
)

type stringerValue string

func (s stringerValue) String() string { return string(s) }

func TestTokenize(t *testing.T) {
	tests := []struct {
		name   string
		source any
		want   []string
	}{
		{
			name:   "plain string",
			source: "Civil Engineer, water",
			want:   []string{"civil", "engineer", "water"},
		},
		{
			name:   "punctuation and hyphens separate words",
			source: "Water-Supply / Solar (grid)!",
			want:   []string{"water", "supply", "solar", "grid"},
		},
		{
			name:   "string slice splits each element",
			source: []string{"Medical", "Water Supply"},
			want:   []string{"medical", "water", "supply"},
		},
		{
			name:   "text list",
			source: domain.TextList{"Roads", "Bridges"},
			want:   []string{"roads", "bridges"},
		},
		{
			name:   "arabic text",
			source: "مهندس إنشاءات",
			want:   []string{"مهندس", "إنشاءات"},
		},
		{
			name:   "arabic with harakat stays one word",
			source: "إِعْمَار المدن",
			want:   []string{"إِعْمَار", "المدن"},
		},
		{
			name:   "arabic comma separates",
			source: "طب،جراحة",
			want:   []string{"طب", "جراحة"},
		},
		{
			name:   "accented latin letters are word characters",
			source: "Café Résumé",
			want:   []string{"café", "résumé"},
		},
		{
			name:   "digits are kept",
			source: "Phase 2 of ٣",
			want:   []string{"phase", "2", "of", "٣"},
		},
		{
			name:   "mixed slice skips nested values",
			source: []any{"Roads", 7.0, nil, map[string]any{"x": "y"}, true},
			want:   []string{"roads", "7", "true"},
		},
		{
			name:   "object values are joined in key order",
			source: map[string]any{"b": "water", "a": "Solar Power", "c": 3.0},
			want:   []string{"solar", "power", "water", "3"},
		},
		{
			name:   "stringer",
			source: stringerValue("Logistics Lead"),
			want:   []string{"logistics", "lead"},
		},
		{
			name:   "nil",
			source: nil,
			want:   []string{},
		},
		{
			name:   "unsupported type",
			source: 42,
			want:   []string{},
		},
		{
			name:   "only separators",
			source: " , ;; -- ",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.source)
			if got == nil {
				t.Fatalf("Tokenize() returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenize_TagsRepresentationsAgree(t *testing.T) {
	fromList := Tokenize([]string{"construction", "water"})
	fromCSV := Tokenize("construction, water")

	if !reflect.DeepEqual(fromList, fromCSV) {
		t.Errorf("list tokens %q != csv tokens %q", fromList, fromCSV)
	}
}
