package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alkarama/hub/internal/domain"
	"github.com/alkarama/hub/internal/infrastructure/store"
)

// Ranking directions reported to the RankingRecorder
const (
	DirectionProjectProfessionals = "project_professionals"
	DirectionProfessionalProjects = "professional_projects"
	DirectionReportProfessionals  = "report_professionals"
)

// Collections of the record store, also used in cache keys
const (
	collectionProjects = "projects"
	collectionUsers    = "users"
	collectionReports  = "reports"
)

const defaultCollectionTTL = 30 * time.Second

// Query prefixes that select which collection a record filter applies to,
// e.g. "project.status=active" or "professional.profile.availability=remote"
const (
	FilterPrefixProject      = "project."
	FilterPrefixProfessional = "professional."
	FilterPrefixReport       = "report."
)

// WithProjectFilter narrows the projects read from the store with json-server
// style equality filters. Nested fields use dots; repeated calls add up.
func WithProjectFilter(filter url.Values) RankOption {
	return func(o *rankOptions) {
		o.projectFilter = mergeFilter(o.projectFilter, filter)
	}
}

// WithProfessionalFilter narrows the users read from the store
func WithProfessionalFilter(filter url.Values) RankOption {
	return func(o *rankOptions) {
		o.professionalFilter = mergeFilter(o.professionalFilter, filter)
	}
}

// WithReportFilter narrows the reports read from the store
func WithReportFilter(filter url.Values) RankOption {
	return func(o *rankOptions) {
		o.reportFilter = mergeFilter(o.reportFilter, filter)
	}
}

// FilterOptions turns prefixed query parameters ("project.status=active")
// into filter options. Keys without a known prefix are ignored.
func FilterOptions(query url.Values) []RankOption {
	byPrefix := map[string]url.Values{}
	for key, values := range query {
		for _, prefix := range []string{FilterPrefixProject, FilterPrefixProfessional, FilterPrefixReport} {
			field, ok := strings.CutPrefix(key, prefix)
			if !ok || field == "" {
				continue
			}
			if byPrefix[prefix] == nil {
				byPrefix[prefix] = url.Values{}
			}
			byPrefix[prefix][field] = append(byPrefix[prefix][field], values...)
		}
	}

	var opts []RankOption
	if f := byPrefix[FilterPrefixProject]; f != nil {
		opts = append(opts, WithProjectFilter(f))
	}
	if f := byPrefix[FilterPrefixProfessional]; f != nil {
		opts = append(opts, WithProfessionalFilter(f))
	}
	if f := byPrefix[FilterPrefixReport]; f != nil {
		opts = append(opts, WithReportFilter(f))
	}
	return opts
}

func mergeFilter(dst, src url.Values) url.Values {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = url.Values{}
	}
	for key, values := range src {
		dst[key] = append(dst[key], values...)
	}
	return dst
}

// storeFilters collects the filter options; ranking options are left to the Matcher
func storeFilters(opts []RankOption) rankOptions {
	var o rankOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// RankingRecorder receives one observation per ranking computation
type RankingRecorder interface {
	ObserveRanking(direction string, candidates, results int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRanking(string, int, int, time.Duration) {}

// DirectoryServiceConfig holds configuration for the directory service
type DirectoryServiceConfig struct {
	CacheTTL time.Duration
	Logger   *zap.Logger
	Recorder RankingRecorder
}

// DirectoryService answers matching questions about records held in the store.
// Flow: check cache -> fetch collections from store -> rank -> return
type DirectoryService struct {
	store    domain.RecordStore
	cache    domain.CacheRepository
	matcher  *Matcher
	cacheTTL time.Duration
	logger   *zap.Logger
	recorder RankingRecorder
}

// NewDirectoryService creates a new directory service with dependencies.
// cache may be nil, in which case every call goes to the store.
func NewDirectoryService(
	recordStore domain.RecordStore,
	cache domain.CacheRepository,
	matcher *Matcher,
	config DirectoryServiceConfig,
) *DirectoryService {
	if matcher == nil {
		matcher = NewMatcher(MatcherConfig{})
	}

	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCollectionTTL
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var recorder RankingRecorder = nopRecorder{}
	if config.Recorder != nil {
		recorder = config.Recorder
	}

	return &DirectoryService{
		store:    recordStore,
		cache:    cache,
		matcher:  matcher,
		cacheTTL: cacheTTL,
		logger:   logger,
		recorder: recorder,
	}
}

// Matcher returns the matcher used for ranking
func (s *DirectoryService) Matcher() *Matcher {
	return s.matcher
}

// ProfessionalsForProject ranks every professional in the store against one project
func (s *DirectoryService) ProfessionalsForProject(
	ctx context.Context,
	projectID string,
	opts ...RankOption,
) (*domain.ProjectMatches, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, domain.ErrInvalidRequest
	}

	var (
		project *domain.Project
		users   []domain.User
	)

	filters := storeFilters(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.store.GetProject(gctx, projectID)
		if err != nil {
			return wrapStoreError("get project "+projectID, err)
		}
		if p == nil {
			return domain.ErrNotFound
		}
		project = p
		return nil
	})
	g.Go(func() error {
		u, err := s.users(gctx, filters.professionalFilter)
		users = u
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	professionals := store.Professionals(users)

	start := time.Now()
	ranked := s.matcher.RankProfessionalsForProject(*project, professionals, opts...)
	s.recorder.ObserveRanking(DirectionProjectProfessionals, len(professionals), len(ranked), time.Since(start))

	return &domain.ProjectMatches{Project: *project, Professionals: ranked}, nil
}

// ProjectsForProfessional ranks every project in the store for one user
func (s *DirectoryService) ProjectsForProfessional(
	ctx context.Context,
	userID string,
	opts ...RankOption,
) (*domain.ProfessionalProjects, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidRequest
	}

	var (
		user     *domain.User
		projects []domain.Project
	)

	filters := storeFilters(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.store.GetUser(gctx, userID)
		if err != nil {
			return wrapStoreError("get user "+userID, err)
		}
		if u == nil {
			return domain.ErrNotFound
		}
		user = u
		return nil
	})
	g.Go(func() error {
		p, err := s.projects(gctx, filters.projectFilter)
		projects = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	start := time.Now()
	ranked := s.matcher.RankProjectsForProfessional(*user, projects, opts...)
	s.recorder.ObserveRanking(DirectionProfessionalProjects, len(projects), len(ranked), time.Since(start))

	return &domain.ProfessionalProjects{Professional: *user, Projects: ranked}, nil
}

// AllProjectMatches returns every project with its ranked professionals,
// in store order. This backs the admin matching board.
func (s *DirectoryService) AllProjectMatches(ctx context.Context, opts ...RankOption) ([]domain.ProjectMatches, error) {
	var (
		projects []domain.Project
		users    []domain.User
	)

	filters := storeFilters(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.projects(gctx, filters.projectFilter)
		projects = p
		return err
	})
	g.Go(func() error {
		u, err := s.users(gctx, filters.professionalFilter)
		users = u
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	professionals := store.Professionals(users)

	out := make([]domain.ProjectMatches, 0, len(projects))
	for _, project := range projects {
		start := time.Now()
		ranked := s.matcher.RankProfessionalsForProject(project, professionals, opts...)
		s.recorder.ObserveRanking(DirectionProjectProfessionals, len(professionals), len(ranked), time.Since(start))

		out = append(out, domain.ProjectMatches{Project: project, Professionals: ranked})
	}

	return out, nil
}

// AllReportMatches returns every citizen report with its suggested professionals
func (s *DirectoryService) AllReportMatches(ctx context.Context, opts ...RankOption) ([]domain.ReportMatches, error) {
	var (
		reports []domain.Report
		users   []domain.User
	)

	filters := storeFilters(opts)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := s.reports(gctx, filters.reportFilter)
		reports = r
		return err
	})
	g.Go(func() error {
		u, err := s.users(gctx, filters.professionalFilter)
		users = u
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	professionals := store.Professionals(users)

	out := make([]domain.ReportMatches, 0, len(reports))
	for _, report := range reports {
		start := time.Now()
		ranked := s.matcher.RankProfessionalsForReport(report, professionals, opts...)
		s.recorder.ObserveRanking(DirectionReportProfessionals, len(professionals), len(ranked), time.Since(start))

		out = append(out, domain.ReportMatches{Report: report, Professionals: ranked})
	}

	return out, nil
}

// Invalidate drops the cached collections so the next call reads the store.
// It is wired to the file store's reload notification.
func (s *DirectoryService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}

	var errs []error
	for _, name := range []string{collectionProjects, collectionUsers, collectionReports} {
		if err := s.cache.Delete(ctx, cacheKey(name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *DirectoryService) projects(ctx context.Context, filter url.Values) ([]domain.Project, error) {
	return loadCollection(ctx, s, collectionProjects, filter, s.store.ListProjects)
}

func (s *DirectoryService) users(ctx context.Context, filter url.Values) ([]domain.User, error) {
	return loadCollection(ctx, s, collectionUsers, filter, s.store.ListUsers)
}

func (s *DirectoryService) reports(ctx context.Context, filter url.Values) ([]domain.Report, error) {
	return loadCollection(ctx, s, collectionReports, filter, s.store.ListReports)
}

// loadCollection reads a collection through the cache. Only whole collections
// are cached; filtered reads go to the store every time.
// Cache failures are logged and never fail the request.
func loadCollection[T any](
	ctx context.Context,
	s *DirectoryService,
	name string,
	filter url.Values,
	fetch func(context.Context, url.Values) ([]T, error),
) ([]T, error) {
	key := cacheKey(name)
	cached := s.cache != nil && len(filter) == 0

	if cached {
		data, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var records []T
			if err := json.Unmarshal(data, &records); err == nil {
				return records, nil
			}
			s.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		case !errors.Is(err, domain.ErrCacheMiss):
			s.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	records, err := fetch(ctx, filter)
	if err != nil {
		return nil, wrapStoreError("list "+name, err)
	}
	if records == nil {
		records = []T{}
	}

	if cached {
		data, err := json.Marshal(records)
		if err == nil {
			err = s.cache.Set(ctx, key, data, s.cacheTTL)
		}
		if err != nil {
			s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return records, nil
}

func cacheKey(collection string) string {
	return "collection:" + collection
}

// wrapStoreError marks a store error as ErrStoreFailure unless the caller
// needs to tell it apart (missing record, rate limit, cancellation).
func wrapStoreError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrRateLimited),
		errors.Is(err, domain.ErrStoreFailure),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrStoreFailure, op, err)
}
