package domain

import (
	"context"
	"net/url"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque bytes so that remote backends can store them as-is.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// RecordStore defines read access to the collections of the external record store.
// Filters are passed through as query parameters (json-server style).
type RecordStore interface {
	ListProjects(ctx context.Context, filter url.Values) ([]Project, error)
	ListUsers(ctx context.Context, filter url.Values) ([]User, error)
	ListReports(ctx context.Context, filter url.Values) ([]Report, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	GetUser(ctx context.Context, id string) (*User, error)
}
