package usecase

import (
	"net/url"
	"sort"

	"go.uber.org/zap"

	"github.com/alkarama/hub/internal/domain"
)

// defaultMinScore drops candidates with no overlap at all
const defaultMinScore = 1

// MatcherConfig holds configuration for the Matcher
type MatcherConfig struct {
	Vocabulary         *Vocabulary
	MinScore           int    // applied when a ranking call does not override it; <= 0 means 1
	Language           string // preferred content language for title/summary
	EnableDebugLogging bool
	Logger             *zap.Logger
}

// Matcher ranks professionals against projects (and the reverse) by counting
// overlapping canonical tokens. It holds no mutable state after construction,
// so one instance can serve concurrent requests.
type Matcher struct {
	vocabulary         *Vocabulary
	minScore           int
	language           string
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewMatcher creates a matcher with the given configuration
func NewMatcher(config MatcherConfig) *Matcher {
	vocabulary := config.Vocabulary
	if vocabulary == nil {
		vocabulary = DefaultVocabulary()
	}

	minScore := config.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}

	language := config.Language
	if language == "" {
		language = domain.LanguageEnglish
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Matcher{
		vocabulary:         vocabulary,
		minScore:           minScore,
		language:           language,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// Vocabulary returns the vocabulary used for canonicalization
func (m *Matcher) Vocabulary() *Vocabulary {
	return m.vocabulary
}

// RankOption adjusts a single ranking call
type RankOption func(*rankOptions)

type rankOptions struct {
	minScore int
	language string

	// store-side filters, applied by DirectoryService only
	projectFilter      url.Values
	professionalFilter url.Values
	reportFilter       url.Values
}

// WithMinScore drops candidates scoring below n. Zero keeps every candidate.
func WithMinScore(n int) RankOption {
	return func(o *rankOptions) {
		if n < 0 {
			n = 0
		}
		o.minScore = n
	}
}

// WithLanguage selects which title/summary variant is preferred
func WithLanguage(lang string) RankOption {
	return func(o *rankOptions) {
		if lang != "" {
			o.language = lang
		}
	}
}

func (m *Matcher) resolve(opts []RankOption) rankOptions {
	o := rankOptions{minScore: m.minScore, language: m.language}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Score returns the number of the professional's canonical tokens (with
// repetition) that appear in the project's vocabulary. Missing fields simply
// contribute nothing.
func (m *Matcher) Score(project domain.Project, professional domain.Professional, opts ...RankOption) int {
	o := m.resolve(opts)
	score, _ := overlap(m.projectVocabulary(&project, o.language), m.professionalTerms(&professional))
	return score
}

// ScoreWithTokens is Score plus the distinct canonical tokens that matched
func (m *Matcher) ScoreWithTokens(project domain.Project, professional domain.Professional, opts ...RankOption) (int, []string) {
	o := m.resolve(opts)
	return overlap(m.projectVocabulary(&project, o.language), m.professionalTerms(&professional))
}

// RankProfessionalsForProject scores every professional against the project,
// drops those below the minimum score and sorts the rest by descending score.
// Equal scores keep their input order.
func (m *Matcher) RankProfessionalsForProject(
	project domain.Project,
	professionals []domain.Professional,
	opts ...RankOption,
) []domain.ProfessionalMatch {
	o := m.resolve(opts)
	subject := m.projectVocabulary(&project, o.language)

	if m.enableDebugLogging {
		m.logger.Debug("ranking professionals for project",
			zap.String("project", project.ID.String()),
			zap.Int("candidates", len(professionals)),
			zap.Strings("vocabulary", setKeys(subject)))
	}

	return m.rankProfessionals(subject, professionals, o)
}

// RankProfessionalsForReport ranks professionals against a citizen report's title
func (m *Matcher) RankProfessionalsForReport(
	report domain.Report,
	professionals []domain.Professional,
	opts ...RankOption,
) []domain.ProfessionalMatch {
	o := m.resolve(opts)
	subject := toSet(m.terms(report.Title))

	if m.enableDebugLogging {
		m.logger.Debug("ranking professionals for report",
			zap.String("report", report.ID.String()),
			zap.Int("candidates", len(professionals)))
	}

	return m.rankProfessionals(subject, professionals, o)
}

// ScoreReport scores a professional against a citizen report's title
func (m *Matcher) ScoreReport(report domain.Report, professional domain.Professional) int {
	score, _ := overlap(toSet(m.terms(report.Title)), m.professionalTerms(&professional))
	return score
}

// RankProjectsForProfessional is the mirror of RankProfessionalsForProject:
// the same overlap computation, iterating over projects instead.
func (m *Matcher) RankProjectsForProfessional(
	professional domain.Professional,
	projects []domain.Project,
	opts ...RankOption,
) []domain.ProjectMatch {
	o := m.resolve(opts)
	terms := m.professionalTerms(&professional)

	matches := make([]domain.ProjectMatch, 0, len(projects))
	for i := range projects {
		score, matched := overlap(m.projectVocabulary(&projects[i], o.language), terms)

		if m.enableDebugLogging {
			m.logger.Debug("scored project",
				zap.String("professional", professional.ID.String()),
				zap.String("project", projects[i].ID.String()),
				zap.Int("score", score),
				zap.Strings("matched", matched))
		}

		if score < o.minScore {
			continue
		}
		matches = append(matches, domain.ProjectMatch{
			Project:       projects[i],
			Score:         score,
			MatchedTokens: matched,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

func (m *Matcher) rankProfessionals(
	subject map[string]struct{},
	professionals []domain.Professional,
	o rankOptions,
) []domain.ProfessionalMatch {
	matches := make([]domain.ProfessionalMatch, 0, len(professionals))
	for i := range professionals {
		score, matched := overlap(subject, m.professionalTerms(&professionals[i]))

		if m.enableDebugLogging {
			m.logger.Debug("scored professional",
				zap.String("professional", professionals[i].ID.String()),
				zap.Int("score", score),
				zap.Strings("matched", matched))
		}

		if score < o.minScore {
			continue
		}
		matches = append(matches, domain.ProfessionalMatch{
			Professional:  professionals[i],
			Score:         score,
			MatchedTokens: matched,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	return matches
}

// projectVocabulary is the set of canonical tokens from the project's tags,
// title and summary
func (m *Matcher) projectVocabulary(project *domain.Project, lang string) map[string]struct{} {
	set := toSet(m.terms(project.Tags))
	text := project.LocalizedTitle(lang) + " " + project.LocalizedSummary(lang)
	for _, t := range m.terms(text) {
		set[t] = struct{}{}
	}
	return set
}

// professionalTerms keeps repetitions: each occurrence can add to the score
func (m *Matcher) professionalTerms(professional *domain.Professional) []string {
	terms := m.terms(professional.ProfessionText())
	return append(terms, m.terms(professional.ExpertiseList())...)
}

// terms tokenizes and canonicalizes a source, dropping configured stop words
func (m *Matcher) terms(source any) []string {
	canonical := m.vocabulary.Canonicalize(Tokenize(source))
	kept := canonical[:0]
	for _, t := range canonical {
		if m.vocabulary.IsStopWord(t) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}

// overlap counts terms present in the subject set and collects the distinct matches
func overlap(subject map[string]struct{}, terms []string) (int, []string) {
	score := 0
	var matched []string
	seen := make(map[string]bool)

	for _, t := range terms {
		if _, ok := subject[t]; !ok {
			continue
		}
		score++
		if !seen[t] {
			seen[t] = true
			matched = append(matched, t)
		}
	}

	return score, matched
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func setKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

