package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alkarama/hub/internal/domain"
	"github.com/alkarama/hub/internal/logger"
	"github.com/alkarama/hub/internal/usecase"
)

const (
	serviceName    = "alkarama-hub"
	serviceVersion = "1.0.0"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	directory *usecase.DirectoryService
	matcher   *usecase.Matcher
}

// NewHandler creates a new HTTP handler.
// directory may be nil: the store-backed endpoints then answer 503 while the
// stateless match endpoints keep working with the given (or default) matcher.
func NewHandler(directory *usecase.DirectoryService, matcher *usecase.Matcher) *Handler {
	if matcher == nil && directory != nil {
		matcher = directory.Matcher()
	}
	if matcher == nil {
		matcher = usecase.NewMatcher(usecase.MatcherConfig{})
	}
	return &Handler{directory: directory, matcher: matcher}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// MatchProfessionals ranks the posted professionals against the posted project
func (h *Handler) MatchProfessionals(c *gin.Context) {
	var req matchProfessionalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts, err := req.options()
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	ranked := h.matcher.RankProfessionalsForProject(*req.Project, req.Professionals, opts...)
	c.JSON(http.StatusOK, domain.ProjectMatches{Project: *req.Project, Professionals: ranked})
}

// MatchProjects ranks the posted projects for the posted professional
func (h *Handler) MatchProjects(c *gin.Context) {
	var req matchProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts, err := req.options()
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	ranked := h.matcher.RankProjectsForProfessional(*req.Professional, req.Projects, opts...)
	c.JSON(http.StatusOK, domain.ProfessionalProjects{Professional: *req.Professional, Projects: ranked})
}

// Score returns the overlap score of one project/professional pair
func (h *Handler) Score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	opts, err := req.options()
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	score, matched := h.matcher.ScoreWithTokens(*req.Project, *req.Professional, opts...)
	if matched == nil {
		matched = []string{}
	}
	c.JSON(http.StatusOK, scoreResponse{Score: score, MatchedTokens: matched})
}

// ProfessionalsForProject ranks stored professionals for a stored project
func (h *Handler) ProfessionalsForProject(c *gin.Context) {
	if !h.requireDirectory(c) {
		return
	}

	opts, err := queryOptions(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.directory.ProfessionalsForProject(c.Request.Context(), c.Param("id"), opts...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ProjectsForProfessional ranks stored projects for a stored user
func (h *Handler) ProjectsForProfessional(c *gin.Context) {
	if !h.requireDirectory(c) {
		return
	}

	opts, err := queryOptions(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.directory.ProjectsForProfessional(c.Request.Context(), c.Param("id"), opts...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// MatchingProjects serves the admin matching board
func (h *Handler) MatchingProjects(c *gin.Context) {
	if !h.requireDirectory(c) {
		return
	}

	opts, err := queryOptions(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.directory.AllProjectMatches(c.Request.Context(), opts...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": result})
}

// MatchingReports suggests professionals for every citizen report
func (h *Handler) MatchingReports(c *gin.Context) {
	if !h.requireDirectory(c) {
		return
	}

	opts, err := queryOptions(c)
	if err != nil {
		respondBadRequest(c, err)
		return
	}

	result, err := h.directory.AllReportMatches(c.Request.Context(), opts...)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": result})
}

// Canonicalize shows how free text is tokenized and folded by the vocabulary
func (h *Handler) Canonicalize(c *gin.Context) {
	text, ok := c.GetQuery("text")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'text' is required"})
		return
	}

	tokens := usecase.Tokenize(text)
	c.JSON(http.StatusOK, canonicalizeResponse{
		Tokens:    tokens,
		Canonical: h.matcher.Vocabulary().Canonicalize(tokens),
	})
}

func (h *Handler) requireDirectory(c *gin.Context) bool {
	if h.directory == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "record store not configured",
		})
		return false
	}
	return true
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request parameters"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "record store rate limit exceeded"})
	case errors.Is(err, domain.ErrStoreFailure):
		logger.FromContext(c.Request.Context()).Warn("record store failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "record store temporarily unavailable"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "record store timed out"})
	default:
		logger.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
