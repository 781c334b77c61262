package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alkarama/hub/internal/domain"
	"github.com/alkarama/hub/internal/infrastructure/store"
	"github.com/alkarama/hub/internal/logger"
	"github.com/alkarama/hub/internal/usecase"
)

// options are the persistent flags shared by every command
type options struct {
	dbPath     string
	storeURL   string
	lang       string
	minScore   int
	jsonOut    bool
	vocabulary string
	timeout    time.Duration
	verbose    bool
	where      []string
}

// NewRootCmd builds the hubctl command tree
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "hubctl",
		Short: "Alkarama Hub matching tools",
		Long: "Rank professionals for projects (and projects for professionals) from a\n" +
			"json-server record store or a local db.json file.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.dbPath, "db", "", "path to a json-server db.json file")
	pf.StringVar(&opts.storeURL, "store-url", "", "base URL of a json-server record store")
	pf.StringVar(&opts.lang, "lang", domain.LanguageEnglish, "preferred content language (en|ar)")
	pf.IntVar(&opts.minScore, "min-score", 1, "drop matches scoring below this (0 keeps everyone)")
	pf.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")
	pf.StringVar(&opts.vocabulary, "vocabulary", "", "YAML vocabulary file replacing the built-in one")
	pf.DurationVar(&opts.timeout, "timeout", 30*time.Second, "overall timeout for store requests")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "log store requests and scoring to stderr")
	pf.StringArrayVar(&opts.where, "where", nil,
		"filter records before ranking, e.g. project.status=active (repeatable)")

	root.AddCommand(newMatchCmd(opts))
	root.AddCommand(newTokensCmd(opts))

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *options) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return logger.NewLogger("development", "debug")
}

func (o *options) rankOptions() ([]usecase.RankOption, error) {
	if o.minScore < 0 {
		return nil, fmt.Errorf("--min-score must not be negative, got %d", o.minScore)
	}
	lang := strings.ToLower(strings.TrimSpace(o.lang))
	if lang != domain.LanguageEnglish && lang != domain.LanguageArabic {
		return nil, fmt.Errorf("--lang must be %q or %q, got %q", domain.LanguageEnglish, domain.LanguageArabic, o.lang)
	}
	rank := []usecase.RankOption{usecase.WithMinScore(o.minScore), usecase.WithLanguage(lang)}

	filters, err := o.filters()
	if err != nil {
		return nil, err
	}
	return append(rank, usecase.FilterOptions(filters)...), nil
}

func (o *options) filters() (url.Values, error) {
	values := url.Values{}
	for _, expr := range o.where {
		field, value, ok := strings.Cut(expr, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("--where expects field=value, got %q", expr)
		}
		if !strings.HasPrefix(field, usecase.FilterPrefixProject) &&
			!strings.HasPrefix(field, usecase.FilterPrefixProfessional) &&
			!strings.HasPrefix(field, usecase.FilterPrefixReport) {
			return nil, fmt.Errorf("--where field must start with project., professional. or report., got %q", field)
		}
		values.Add(field, value)
	}
	return values, nil
}

func (o *options) matcher(log *zap.Logger) (*usecase.Matcher, error) {
	vocabulary := usecase.DefaultVocabulary()
	if o.vocabulary != "" {
		v, err := usecase.LoadVocabularyFile(o.vocabulary)
		if err != nil {
			return nil, err
		}
		vocabulary = v
	}

	return usecase.NewMatcher(usecase.MatcherConfig{
		Vocabulary:         vocabulary,
		EnableDebugLogging: o.verbose,
		Logger:             log,
	}), nil
}

func (o *options) recordStore(log *zap.Logger) (domain.RecordStore, error) {
	switch {
	case o.dbPath != "" && o.storeURL != "":
		return nil, errors.New("use either --db or --store-url, not both")
	case o.dbPath != "":
		fileStore, err := store.OpenFileStore(o.dbPath, log)
		if err != nil {
			return nil, err
		}
		return fileStore, nil
	case o.storeURL != "":
		client := store.NewClient(store.ClientConfig{
			BaseURL: o.storeURL,
			Logger:  log,
		})
		client.SetDebug(o.verbose)
		return client, nil
	}
	return nil, errors.New("a record store is required: pass --db or --store-url")
}

// session is everything a matching command needs
type session struct {
	directory *usecase.DirectoryService
	rank      []usecase.RankOption
	lang      string
}

func (o *options) session() (*session, error) {
	rank, err := o.rankOptions()
	if err != nil {
		return nil, err
	}

	log, err := o.logger()
	if err != nil {
		return nil, err
	}

	matcher, err := o.matcher(log)
	if err != nil {
		return nil, err
	}

	recordStore, err := o.recordStore(log)
	if err != nil {
		return nil, err
	}

	directory := usecase.NewDirectoryService(recordStore, nil, matcher, usecase.DirectoryServiceConfig{
		Logger: log,
	})

	return &session{
		directory: directory,
		rank:      rank,
		lang:      strings.ToLower(strings.TrimSpace(o.lang)),
	}, nil
}
