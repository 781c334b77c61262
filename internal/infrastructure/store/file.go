package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/alkarama/hub/internal/domain"
)

const defaultReloadDebounce = 100 * time.Millisecond

// snapshot is the layout of a json-server db.json file
type snapshot struct {
	Projects domain.OneOrMany[domain.Project] `json:"projects"`
	Users    domain.OneOrMany[domain.User]    `json:"users"`
	Reports  domain.OneOrMany[domain.Report]  `json:"reports"`
}

// FileStore serves the record store collections from a local db.json file.
// It is safe for concurrent use; Reload swaps the whole snapshot at once.
type FileStore struct {
	path     string
	logger   *zap.Logger
	debounce time.Duration

	mu   sync.RWMutex
	data snapshot
}

// OpenFileStore loads a db.json snapshot from path
func OpenFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}

	s := &FileStore{
		path:     abs,
		logger:   logger,
		debounce: defaultReloadDebounce,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute path of the backing file
func (s *FileStore) Path() string {
	return s.path
}

// Reload re-reads the backing file. On error the previous snapshot is kept.
func (s *FileStore) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read db file: %w", err)
	}

	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse db file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.data = data
	s.mu.Unlock()

	s.logger.Debug("db file loaded",
		zap.String("path", s.path),
		zap.Int("projects", len(data.Projects)),
		zap.Int("users", len(data.Users)),
		zap.Int("reports", len(data.Reports)))
	return nil
}

// ListProjects returns the projects matching every filter field
func (s *FileStore) ListProjects(_ context.Context, filter url.Values) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterRecords([]domain.Project(s.data.Projects), filter)
}

// ListUsers returns the users matching every filter field
func (s *FileStore) ListUsers(_ context.Context, filter url.Values) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterRecords([]domain.User(s.data.Users), filter)
}

// ListReports returns the reports matching every filter field
func (s *FileStore) ListReports(_ context.Context, filter url.Values) ([]domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterRecords([]domain.Report(s.data.Reports), filter)
}

// GetProject returns a single project by id
func (s *FileStore) GetProject(_ context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Projects {
		if s.data.Projects[i].ID.String() == id {
			project := s.data.Projects[i]
			return &project, nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetUser returns a single user by id
func (s *FileStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.data.Users {
		if s.data.Users[i].ID.String() == id {
			user := s.data.Users[i]
			return &user, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Watch reloads the snapshot whenever the backing file changes and then calls
// onReload (if set). Bursts of events are coalesced. It blocks until ctx is done.
func (s *FileStore) Watch(ctx context.Context, onReload func()) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// editors and json-server replace the file, so watch its directory
	if err := fw.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("db file watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				s.logger.Warn("db file reload failed", zap.String("path", s.path), zap.Error(err))
				continue
			}
			s.logger.Info("db file reloaded", zap.String("path", s.path))
			if onReload != nil {
				onReload()
			}
		}
	}
}

// filterRecords applies json-server style equality filters. A field may be
// nested ("profile.profession") and may be given several values, any of which
// matches. Parameters starting with "_" (paging, sorting) are ignored.
func filterRecords[T any](records []T, filter url.Values) ([]T, error) {
	out := make([]T, 0, len(records))
	if len(activeFilters(filter)) == 0 {
		return append(out, records...), nil
	}

	for _, record := range records {
		fields, err := toFields(record)
		if err != nil {
			return nil, err
		}
		if matchesFilter(fields, filter) {
			out = append(out, record)
		}
	}
	return out, nil
}

func activeFilters(filter url.Values) []string {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		if !strings.HasPrefix(k, "_") {
			keys = append(keys, k)
		}
	}
	return keys
}

func toFields(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return fields, nil
}

func matchesFilter(fields map[string]any, filter url.Values) bool {
	for _, key := range activeFilters(filter) {
		value, ok := lookupField(fields, key)
		if !ok || !valueMatches(value, filter[key]) {
			return false
		}
	}
	return true
}

func lookupField(fields map[string]any, path string) (any, bool) {
	var current any = fields
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// valueMatches compares a decoded field with the wanted strings.
// Arrays match when any element does.
func valueMatches(value any, wanted []string) bool {
	if items, ok := value.([]any); ok {
		for _, item := range items {
			if valueMatches(item, wanted) {
				return true
			}
		}
		return false
	}

	var text string
	switch v := value.(type) {
	case string:
		text = v
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		text = strconv.FormatBool(v)
	default:
		return false
	}

	for _, w := range wanted {
		if text == w {
			return true
		}
	}
	return false
}
