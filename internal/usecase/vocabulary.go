package usecase

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// arabicArticle is the definite article; "البناء" should fold like "بناء"
const arabicArticle = "ال"

// defaultConcepts maps each canonical concept to its English and Arabic surface forms
var defaultConcepts = map[string][]string{
	"construction": {
		"construction", "constructions", "build", "building", "builder", "rebuild",
		"rebuilding", "reconstruction", "contractor", "civil",
		"بناء", "اعمار", "إعمار", "إنشاءات", "انشاءات", "تشييد", "مقاول", "مقاولات",
	},
	"engineering": {
		"engineering", "engineer", "engineers", "eng",
		"هندسة", "هندسي", "مهندس", "مهندسين", "مهندسون",
	},
	"software": {
		"software", "sw", "it", "programming", "programmer", "developer", "developers", "coding",
		"برمجة", "برمجيات", "تطبيقات", "تقنية", "مبرمج", "حاسوب",
	},
	"education": {
		"education", "ed", "teaching", "teacher", "teachers", "school", "schools",
		"university", "universities",
		"تعليم", "تدريس", "مدارس", "مدرسة", "جامعات", "جامعة", "معلم",
	},
	"medical": {
		"medical", "medicine", "health", "healthcare", "hospital", "hospitals", "clinic",
		"clinics", "doctor", "doctors", "physician", "nurse", "nursing", "surgery", "surgeon",
		"صحة", "طبي", "طبية", "مستشفى", "مستشفيات", "طبيب", "أطباء", "عيادة", "تمريض", "جراحة",
	},
	"water": {
		"water", "sanitation", "wash", "plumbing", "sewage", "wells",
		"مياه", "ماء", "صرف", "سباكة", "آبار",
	},
	"electricity": {
		"electricity", "electrical", "electric", "power", "energy", "solar", "grid",
		"كهرباء", "كهربائي", "طاقة", "شمسية",
	},
	"logistics": {
		"logistics", "supply", "transport", "transportation", "shipping", "warehouse",
		"لوجستيات", "إمداد", "نقل", "شحن", "مخازن",
	},
	"finance": {
		"finance", "financial", "accounting", "accountant", "banking", "economics",
		"مالية", "محاسبة", "محاسب", "تمويل", "اقتصاد", "بنوك",
	},
	"agriculture": {
		"agriculture", "agricultural", "farming", "farm", "farmer", "irrigation", "agronomy",
		"زراعة", "زراعي", "ري", "مزارع",
	},
	"infrastructure": {
		"infrastructure", "road", "roads", "bridge", "bridges",
		"بنية", "بنية تحتية", "طرق", "جسور",
	},
	"security": {
		"security", "safety", "demining",
		"أمن", "سلامة", "حماية",
	},
}

// Vocabulary folds English and Arabic surface forms onto canonical concepts.
// It is immutable after construction and safe for concurrent use.
type Vocabulary struct {
	index     map[string]string
	concepts  []string
	stopWords map[string]struct{}
}

// VocabularyOption customizes a Vocabulary at construction
type VocabularyOption func(*vocabularyOptions)

type vocabularyOptions struct {
	stopWords []string
}

// WithStopWords sets words that never count towards a match score.
// The built-in vocabulary has none: every shared token scores.
func WithStopWords(words []string) VocabularyOption {
	return func(o *vocabularyOptions) {
		o.stopWords = words
	}
}

// NewVocabulary builds the reverse lookup (normalized synonym -> concept) from a
// concept table. Concept names map to themselves. Multi-word synonyms are indexed
// word by word; when two concepts claim the same word, the first in sorted
// concept order wins.
func NewVocabulary(table map[string][]string, opts ...VocabularyOption) *Vocabulary {
	var o vocabularyOptions
	for _, opt := range opts {
		opt(&o)
	}

	v := &Vocabulary{
		index:     make(map[string]string),
		stopWords: make(map[string]struct{}, len(o.stopWords)),
	}

	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	canonical := make(map[string]string, len(names))
	for _, name := range names {
		concept := NormalizeToken(name)
		if concept == "" {
			continue
		}
		canonical[name] = concept
		if _, taken := v.index[concept]; !taken {
			v.index[concept] = concept
			v.concepts = append(v.concepts, concept)
		}
	}

	for _, name := range names {
		concept, ok := canonical[name]
		if !ok {
			continue
		}
		for _, synonym := range table[name] {
			for _, word := range splitWords(synonym) {
				key := NormalizeToken(word)
				if key == "" {
					continue
				}
				if _, taken := v.index[key]; !taken {
					v.index[key] = concept
				}
			}
		}
	}

	for _, w := range o.stopWords {
		if key := NormalizeToken(w); key != "" {
			v.stopWords[key] = struct{}{}
		}
	}

	return v
}

// DefaultVocabulary returns the built-in bilingual vocabulary, built on first use
var DefaultVocabulary = sync.OnceValue(func() *Vocabulary {
	return NewVocabulary(defaultConcepts)
})

// vocabularyFile is the YAML layout accepted by LoadVocabularyFile
type vocabularyFile struct {
	Concepts  map[string][]string `yaml:"concepts"`
	StopWords []string            `yaml:"stop_words"`
}

// LoadVocabularyFile reads an alternate concept table from a YAML file,
// with optional stop words
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary file: %w", err)
	}

	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse vocabulary file %s: %w", path, err)
	}

	if len(file.Concepts) == 0 {
		return nil, fmt.Errorf("vocabulary file %s defines no concepts", path)
	}

	return NewVocabulary(file.Concepts, WithStopWords(file.StopWords)), nil
}

// Concepts returns the canonical concept names in sorted order
func (v *Vocabulary) Concepts() []string {
	out := make([]string, len(v.concepts))
	copy(out, v.concepts)
	return out
}

// Lookup normalizes a token and returns its concept, if any.
// A leading Arabic definite article is ignored when the bare form is known.
func (v *Vocabulary) Lookup(token string) (string, bool) {
	key := NormalizeToken(token)
	if key == "" {
		return "", false
	}
	if concept, ok := v.index[key]; ok {
		return concept, true
	}
	if bare, found := strings.CutPrefix(key, arabicArticle); found && len([]rune(bare)) >= 2 {
		if concept, ok := v.index[bare]; ok {
			return concept, true
		}
	}
	return "", false
}

// Canonicalize maps each token to its concept, or to its normalized form when
// the vocabulary does not know it. Order and duplicates are preserved; tokens
// that normalize to nothing are dropped.
func (v *Vocabulary) Canonicalize(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		key := NormalizeToken(tok)
		if key == "" {
			continue
		}
		if concept, ok := v.Lookup(key); ok {
			out = append(out, concept)
			continue
		}
		out = append(out, key)
	}
	return out
}

// IsStopWord reports whether a normalized token was configured as a stop word
func (v *Vocabulary) IsStopWord(token string) bool {
	_, ok := v.stopWords[token]
	return ok
}

// NormalizeToken applies NFKC, lower-cases, strips Arabic diacritics and tatweel,
// and folds Arabic letter-shape variants so spelling differences compare equal.
func NormalizeToken(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	s = strings.ToLower(s)
	return strings.Map(foldArabic, s)
}

// foldArabic drops harakat and maps letter variants onto one shape.
// Returning -1 removes the rune.
func foldArabic(r rune) rune {
	if isArabicDiacritic(r) || r == '\u0640' { // tatweel
		return -1
	}

	switch r {
	case '\u0623', '\u0625', '\u0622', '\u0671': // alef with hamza above/below, madda, wasla
		return '\u0627'
	case '\u0629': // teh marbuta
		return '\u0647'
	case '\u0649', '\u06CC': // alef maksura, farsi yeh
		return '\u064A'
	case '\u0624': // waw with hamza
		return '\u0648'
	case '\u0626': // yeh with hamza
		return '\u064A'
	case '\u06A9': // keheh
		return '\u0643'
	}
	return r
}

func isArabicDiacritic(r rune) bool {
	switch {
	case r >= '\u0610' && r <= '\u061A':
		return true
	case r >= '\u064B' && r <= '\u065F':
		return true
	case r == '\u0670':
		return true
	case r >= '\u06D6' && r <= '\u06ED':
		return true
	}
	return false
}
