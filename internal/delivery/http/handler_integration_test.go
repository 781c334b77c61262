package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alkarama/hub/config"
	"github.com/alkarama/hub/internal/domain"
	"github.com/alkarama/hub/internal/infrastructure/store"
	"github.com/alkarama/hub/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:*", "https://admin.alkarama.org"},
		},
		Cache: config.CacheConfig{
			Type: "memory",
		},
	}
}

// setupTestRouter creates a router without a record store
func setupTestRouter() *gin.Engine {
	handler := NewHandler(nil, nil)
	if handler == nil {
		panic("setupTestRouter: NewHandler returned nil")
	}

	router := SetupRouter(testConfig(), handler, nil)
	if router == nil {
		panic("setupTestRouter: SetupRouter returned nil *gin.Engine")
	}

	return router
}

// --- Fake record store ---

type fakeRecordStore struct {
	projects []domain.Project
	users    []domain.User
	reports  []domain.Report

	listUsersErr  error
	getProjectErr error
}

func (f *fakeRecordStore) ListProjects(context.Context, url.Values) ([]domain.Project, error) {
	return f.projects, nil
}

func (f *fakeRecordStore) ListUsers(context.Context, url.Values) ([]domain.User, error) {
	if f.listUsersErr != nil {
		return nil, f.listUsersErr
	}
	return f.users, nil
}

func (f *fakeRecordStore) ListReports(context.Context, url.Values) ([]domain.Report, error) {
	return f.reports, nil
}

func (f *fakeRecordStore) GetProject(_ context.Context, id string) (*domain.Project, error) {
	if f.getProjectErr != nil {
		return nil, f.getProjectErr
	}
	for i := range f.projects {
		if f.projects[i].ID.String() == id {
			p := f.projects[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRecordStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	for i := range f.users {
		if f.users[i].ID.String() == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		projects: []domain.Project{
			{ID: "1", Title: "School rebuilding in Homs", Tags: domain.TextList{"education", "construction"}},
			{ID: "2", Title: "Hospital generator repair", Tags: domain.TextList{"electricity"}},
		},
		users: []domain.User{
			{ID: "u1", FullName: "Rami", Profession: "Civil Engineer", Expertise: domain.TextList{"construction", "roads"}},
			{ID: "u2", FullName: "Lina", Profession: "Teacher", Expertise: domain.TextList{"education", "schools"}},
			{ID: "u3", FullName: "Admin", Role: domain.RoleAdmin, Profession: "Teacher"},
			{ID: "u4", FullName: "Huda", Profession: "Nurse"},
		},
		reports: []domain.Report{
			{ID: "100", Title: "Broken water pipe"},
		},
	}
}

// setupTestRouterWithStore creates a router backed by a directory service over a fake store
func setupTestRouterWithStore(recordStore domain.RecordStore) *gin.Engine {
	matcher := usecase.NewMatcher(usecase.MatcherConfig{})
	directory := usecase.NewDirectoryService(recordStore, nil, matcher, usecase.DirectoryServiceConfig{})
	return SetupRouter(testConfig(), NewHandler(directory, nil), nil)
}

func serve(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func professionalIDs(matches []domain.ProfessionalMatch) []string {
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.Professional.ID.String())
	}
	return ids
}

// TestHealthCheckEndpoint tests the health check endpoint
func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter()

		w := serve(router, "GET", "/health", "")

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}

		if response["status"] != "healthy" {
			t.Errorf("status = %v, want healthy", response["status"])
		}
		if response["service"] != "alkarama-hub" {
			t.Errorf("service = %v, want alkarama-hub", response["service"])
		}
		version, ok := response["version"].(string)
		if !ok || strings.TrimSpace(version) == "" {
			t.Errorf("version = %v, want non-empty string", response["version"])
		}
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter()

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := serve(router, method, "/health", "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Method %s: Status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter()

	serve(router, "GET", "/health", "")
	w := serve(router, "GET", "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alkarama_http_requests_total")
}

func TestStoreEndpointsWithoutStore(t *testing.T) {
	paths := []string{
		"/api/v1/projects/1/professionals",
		"/api/v1/professionals/u1/projects",
		"/api/v1/matching/projects",
		"/api/v1/matching/reports",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w := serve(setupTestRouter(), "GET", path, "")

			if w.Code != http.StatusServiceUnavailable {
				t.Errorf("Status = %d, want %d", w.Code, http.StatusServiceUnavailable)
			}

			var response map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

			errorMsg, ok := response["error"].(string)
			if !ok {
				t.Errorf("error field is not a string: %v", response["error"])
			} else if !strings.Contains(errorMsg, "not configured") {
				t.Errorf("error = %q, want to contain 'not configured'", errorMsg)
			}
		})
	}
}

func TestProfessionalsForProjectEndpoint(t *testing.T) {
	t.Run("ranks stored professionals", func(t *testing.T) {
		router := setupTestRouterWithStore(newFakeRecordStore())

		w := serve(router, "GET", "/api/v1/projects/1/professionals", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ProjectMatches
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		assert.Equal(t, domain.RecordID("1"), response.Project.ID)
		assert.Equal(t, []string{"u2", "u1"}, professionalIDs(response.Professionals))
		assert.Equal(t, 3, response.Professionals[0].Score)
		assert.Equal(t, 2, response.Professionals[1].Score)
	})

	t.Run("applies min_score from the query", func(t *testing.T) {
		router := setupTestRouterWithStore(newFakeRecordStore())

		w := serve(router, "GET", "/api/v1/projects/1/professionals?min_score=3", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ProjectMatches
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []string{"u2"}, professionalIDs(response.Professionals))
	})

	t.Run("min_score zero keeps every professional but not admins", func(t *testing.T) {
		router := setupTestRouterWithStore(newFakeRecordStore())

		w := serve(router, "GET", "/api/v1/projects/1/professionals?min_score=0", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ProjectMatches
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []string{"u2", "u1", "u4"}, professionalIDs(response.Professionals))
	})

	t.Run("rejects bad query parameters", func(t *testing.T) {
		router := setupTestRouterWithStore(newFakeRecordStore())

		for _, query := range []string{"min_score=abc", "min_score=-1", "lang=fr"} {
			w := serve(router, "GET", "/api/v1/projects/1/professionals?"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, query)
		}
	})

	t.Run("returns 404 for unknown project", func(t *testing.T) {
		router := setupTestRouterWithStore(newFakeRecordStore())

		w := serve(router, "GET", "/api/v1/projects/999/professionals", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"record not found"}`, w.Body.String())
	})

	t.Run("returns 502 when the store fails", func(t *testing.T) {
		recordStore := newFakeRecordStore()
		recordStore.listUsersErr = errors.New("connection refused")
		router := setupTestRouterWithStore(recordStore)

		w := serve(router, "GET", "/api/v1/projects/1/professionals", "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"record store temporarily unavailable"}`, w.Body.String())
	})

	t.Run("returns 429 when the store is rate limited", func(t *testing.T) {
		recordStore := newFakeRecordStore()
		recordStore.getProjectErr = domain.ErrRateLimited
		router := setupTestRouterWithStore(recordStore)

		w := serve(router, "GET", "/api/v1/projects/1/professionals", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
	})
}

func TestProjectsForProfessionalEndpoint(t *testing.T) {
	router := setupTestRouterWithStore(newFakeRecordStore())

	t.Run("ranks stored projects", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/professionals/u1/projects", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ProfessionalProjects
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		assert.Equal(t, domain.RecordID("u1"), response.Professional.ID)
		require.Len(t, response.Projects, 1)
		assert.Equal(t, domain.RecordID("1"), response.Projects[0].Project.ID)
		assert.Equal(t, 2, response.Projects[0].Score)
	})

	t.Run("returns 404 for unknown user", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/professionals/nobody/projects", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMatchingBoardEndpoints(t *testing.T) {
	router := setupTestRouterWithStore(newFakeRecordStore())

	t.Run("projects", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/matching/projects", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Matches []domain.ProjectMatches `json:"matches"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		require.Len(t, response.Matches, 2)
		assert.Equal(t, domain.RecordID("1"), response.Matches[0].Project.ID)
		assert.Equal(t, []string{"u2", "u1"}, professionalIDs(response.Matches[0].Professionals))
		assert.Equal(t, []string{"u4"}, professionalIDs(response.Matches[1].Professionals))
	})

	t.Run("reports", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/matching/reports?min_score=0", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Matches []domain.ReportMatches `json:"matches"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		require.Len(t, response.Matches, 1)
		assert.Equal(t, domain.RecordID("100"), response.Matches[0].Report.ID)
		assert.Equal(t, []string{"u1", "u2", "u4"}, professionalIDs(response.Matches[0].Professionals))
	})
}

const filterDB = `{
  "projects": [
    {"id": 1, "title": "School rebuilding in Homs", "tags": ["education", "construction"], "status": "active"},
    {"id": 2, "title": "Hospital generator repair", "tags": "electricity", "status": "planned"}
  ],
  "users": [
    {"id": "u1", "fullName": "Rami", "country": "SY", "profession": "Civil Engineer", "expertise": "construction, roads"},
    {"id": "u2", "fullName": "Lina", "country": "LB", "profession": "Teacher", "expertise": ["education", "schools"]},
    {"id": "u4", "fullName": "Huda", "country": "SY", "profession": "Nurse"}
  ],
  "reports": [
    {"id": 100, "title": "Broken water pipe", "status": "open"},
    {"id": 101, "title": "School roof collapsed", "status": "closed"}
  ]
}`

func setupFileStoreRouter(t *testing.T) *gin.Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte(filterDB), 0o644))

	fileStore, err := store.OpenFileStore(path, nil)
	require.NoError(t, err)
	return setupTestRouterWithStore(fileStore)
}

func TestRecordFilterQueries(t *testing.T) {
	router := setupFileStoreRouter(t)

	t.Run("project filter narrows the matching board", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/matching/projects?project.status=active", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Matches []domain.ProjectMatches `json:"matches"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Matches, 1)
		assert.Equal(t, domain.RecordID("1"), response.Matches[0].Project.ID)
		assert.Equal(t, []string{"u2", "u1"}, professionalIDs(response.Matches[0].Professionals))
	})

	t.Run("professional filter narrows candidates", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/projects/1/professionals?professional.country=SY&min_score=0", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ProjectMatches
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []string{"u1", "u4"}, professionalIDs(response.Professionals))
	})

	t.Run("report filter", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/matching/reports?report.status=closed", "")
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Matches []domain.ReportMatches `json:"matches"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Matches, 1)
		assert.Equal(t, domain.RecordID("101"), response.Matches[0].Report.ID)
		assert.Equal(t, []string{"u2"}, professionalIDs(response.Matches[0].Professionals))
	})

	t.Run("filter matching nothing gives an empty board", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/matching/projects?project.status=archived", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"matches":[]}`, w.Body.String())
	})
}

func TestMatchProfessionalsEndpoint(t *testing.T) {
	router := setupTestRouter()

	t.Run("accepts a single professional object", func(t *testing.T) {
		payload := `{"project":{"id":1,"title":"Clinic","tags":"medical"},"professionals":{"id":"p1","profession":"Doctor"}}`
		w := serve(router, "POST", "/api/v1/match/professionals", payload)
		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ProjectMatches
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		require.Len(t, response.Professionals, 1)
		assert.Equal(t, 1, response.Professionals[0].Score)
		assert.Equal(t, []string{"medical"}, response.Professionals[0].MatchedTokens)
	})

	t.Run("accepts an array and honours min_score", func(t *testing.T) {
		payload := `{
			"project": {"id": "p", "title": "Water wells", "tags": ["water"]},
			"professionals": [
				{"id": "a", "profession": "Accountant"},
				{"id": "b", "profession": "Plumber", "expertise": "sanitation"}
			],
			"min_score": 0
		}`
		w := serve(router, "POST", "/api/v1/match/professionals", payload)
		require.Equal(t, http.StatusOK, w.Code)

		var response domain.ProjectMatches
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, []string{"b", "a"}, professionalIDs(response.Professionals))
	})

	t.Run("returns empty list for no professionals", func(t *testing.T) {
		w := serve(router, "POST", "/api/v1/match/professionals", `{"project":{"id":1,"title":"Clinic"}}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"professionals":[]`)
	})

	t.Run("returns 400 for missing project", func(t *testing.T) {
		w := serve(router, "POST", "/api/v1/match/professionals", `{"professionals":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.NotNil(t, response["error"])
	})

	t.Run("returns 400 for invalid JSON", func(t *testing.T) {
		w := serve(router, "POST", "/api/v1/match/professionals", `{invalid json}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 400 for unsupported language", func(t *testing.T) {
		w := serve(router, "POST", "/api/v1/match/professionals", `{"project":{"id":1},"lang":"de"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMatchProjectsEndpoint(t *testing.T) {
	router := setupTestRouter()

	payload := `{
		"professional": {"id": "u", "profession": "Electrician", "expertise": ["solar"]},
		"projects": [
			{"id": 1, "title": "School roof", "tags": "education"},
			{"id": 2, "title": "Solar grid for clinic", "tags": ["electricity"]}
		]
	}`
	w := serve(router, "POST", "/api/v1/match/projects", payload)
	require.Equal(t, http.StatusOK, w.Code)

	var response domain.ProfessionalProjects
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Projects, 1)
	assert.Equal(t, domain.RecordID("2"), response.Projects[0].Project.ID)
}

func TestScoreEndpoint(t *testing.T) {
	router := setupTestRouter()

	t.Run("returns score and matched tokens", func(t *testing.T) {
		payload := `{
			"project": {"id": 1, "title": "Wells", "tags": "water, sanitation"},
			"professional": {"id": "u", "profession": "Plumbing", "expertise": ["water", "wells"]}
		}`
		w := serve(router, "POST", "/api/v1/match/score", payload)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"score":3,"matched_tokens":["water"]}`, w.Body.String())
	})

	t.Run("no overlap gives zero and an empty list", func(t *testing.T) {
		payload := `{"project":{"id":1,"title":"Roads"},"professional":{"id":"u","profession":"Nurse"}}`
		w := serve(router, "POST", "/api/v1/match/score", payload)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"score":0,"matched_tokens":[]}`, w.Body.String())
	})

	t.Run("requires both records", func(t *testing.T) {
		w := serve(router, "POST", "/api/v1/match/score", `{"project":{"id":1}}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCanonicalizeEndpoint(t *testing.T) {
	router := setupTestRouter()

	t.Run("shows tokens and canonical forms", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/vocabulary/canonicalize?text="+url.QueryEscape("Civil Engineer, بناء"), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t,
			`{"tokens":["civil","engineer","بناء"],"canonical":["construction","engineering","construction"]}`,
			w.Body.String())
	})

	t.Run("requires text", func(t *testing.T) {
		w := serve(router, "GET", "/api/v1/vocabulary/canonicalize", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestCORSIntegration tests CORS headers work end-to-end with full router
func TestCORSIntegration(t *testing.T) {
	t.Run("health endpoint has CORS for local front-end", func(t *testing.T) {
		router := setupTestRouter()

		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "http://localhost:5173")
		}
		if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Access-Control-Allow-Credentials = %q, want %q", got, "true")
		}
	})

	t.Run("match endpoint has CORS for admin site", func(t *testing.T) {
		router := setupTestRouter()

		req := httptest.NewRequest("POST", "/api/v1/match/score", nil)
		req.Header.Set("Origin", "https://admin.alkarama.org")
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.alkarama.org" {
			t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, "https://admin.alkarama.org")
		}
	})
}

// TestRecoveryMiddleware tests panic recovery
func TestRecoveryMiddleware(t *testing.T) {
	t.Run("recovers from panic without crashing server", func(t *testing.T) {
		router := setupTestRouter()

		router.GET("/panic", func(c *gin.Context) {
			panic("test panic")
		})

		w := serve(router, "GET", "/panic", "")

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
	})
}

// TestAPIVersioning tests that API v1 routes are correctly versioned
func TestAPIVersioning(t *testing.T) {
	t.Run("v1 routes are accessible", func(t *testing.T) {
		w := serve(setupTestRouter(), "POST", "/api/v1/match/score", "")

		// Should reach the handler and fail validation, not 404
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("non-versioned routes return 404", func(t *testing.T) {
		router := setupTestRouter()

		for _, path := range []string{"/api/match/score", "/match/score", "/api/v2/match/score"} {
			w := serve(router, "POST", path, "")
			if w.Code != http.StatusNotFound {
				t.Errorf("Path %s: Status = %d, want %d", path, w.Code, http.StatusNotFound)
			}
		}
	})
}

// TestJSONResponses tests that all responses are valid JSON
func TestJSONResponses(t *testing.T) {
	endpoints := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"POST", "/api/v1/match/score"},
		{"GET", "/api/v1/matching/projects"},
		{"GET", "/api/v1/vocabulary/canonicalize?text=water"},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			router := setupTestRouter()

			req := httptest.NewRequest(endpoint.method, endpoint.path, nil)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			gotContentType := w.Header().Get("Content-Type")
			wantContentType := "application/json; charset=utf-8"
			if gotContentType != wantContentType {
				t.Errorf("Content-Type = %q, want %q", gotContentType, wantContentType)
			}

			var response map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Errorf("Response should be valid JSON, got error: %v", err)
			}
		})
	}
}
