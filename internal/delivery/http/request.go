package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alkarama/hub/internal/domain"
	"github.com/alkarama/hub/internal/usecase"
)

// rankParams are the optional knobs shared by every match request
type rankParams struct {
	MinScore *int   `json:"min_score"`
	Lang     string `json:"lang"`
}

func (p rankParams) options() ([]usecase.RankOption, error) {
	var opts []usecase.RankOption
	if p.MinScore != nil {
		if *p.MinScore < 0 {
			return nil, fmt.Errorf("min_score must not be negative, got %d", *p.MinScore)
		}
		opts = append(opts, usecase.WithMinScore(*p.MinScore))
	}
	if p.Lang != "" {
		lang := strings.ToLower(strings.TrimSpace(p.Lang))
		if lang != domain.LanguageEnglish && lang != domain.LanguageArabic {
			return nil, fmt.Errorf("lang must be %q or %q, got %q", domain.LanguageEnglish, domain.LanguageArabic, p.Lang)
		}
		opts = append(opts, usecase.WithLanguage(lang))
	}
	return opts, nil
}

// matchProfessionalsRequest accepts a single professional object or an array
type matchProfessionalsRequest struct {
	rankParams
	Project       *domain.Project                       `json:"project" binding:"required"`
	Professionals domain.OneOrMany[domain.Professional] `json:"professionals"`
}

type matchProjectsRequest struct {
	rankParams
	Professional *domain.Professional            `json:"professional" binding:"required"`
	Projects     domain.OneOrMany[domain.Project] `json:"projects"`
}

type scoreRequest struct {
	Project      *domain.Project      `json:"project" binding:"required"`
	Professional *domain.Professional `json:"professional" binding:"required"`
	Lang         string               `json:"lang"`
}

func (r scoreRequest) options() ([]usecase.RankOption, error) {
	return rankParams{Lang: r.Lang}.options()
}

type scoreResponse struct {
	Score         int      `json:"score"`
	MatchedTokens []string `json:"matched_tokens"`
}

type canonicalizeResponse struct {
	Tokens    []string `json:"tokens"`
	Canonical []string `json:"canonical"`
}

// queryOptions reads min_score and lang from the query string, plus record
// filters such as project.status=active or professional.country=UK
func queryOptions(c *gin.Context) ([]usecase.RankOption, error) {
	var p rankParams
	if raw := c.Query("min_score"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("min_score must be an integer, got %q", raw)
		}
		p.MinScore = &n
	}
	p.Lang = c.Query("lang")

	opts, err := p.options()
	if err != nil {
		return nil, err
	}
	return append(opts, usecase.FilterOptions(c.Request.URL.Query())...), nil
}
