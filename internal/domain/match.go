package domain

// ProfessionalMatch pairs a professional with its overlap score against a subject.
// It is computed per request and never stored.
type ProfessionalMatch struct {
	Professional  Professional `json:"professional"`
	Score         int          `json:"score"`
	MatchedTokens []string     `json:"matchedTokens,omitempty"`
}

// ProjectMatch pairs a project with its overlap score against a professional
type ProjectMatch struct {
	Project       Project  `json:"project"`
	Score         int      `json:"score"`
	MatchedTokens []string `json:"matchedTokens,omitempty"`
}

// ProjectMatches is one row of the admin matching board
type ProjectMatches struct {
	Project       Project             `json:"project"`
	Professionals []ProfessionalMatch `json:"professionals"`
}

// ReportMatches lists the professionals suggested for one report
type ReportMatches struct {
	Report        Report              `json:"report"`
	Professionals []ProfessionalMatch `json:"professionals"`
}

// ProfessionalProjects lists the projects suggested for one professional
type ProfessionalProjects struct {
	Professional Professional   `json:"professional"`
	Projects     []ProjectMatch `json:"projects"`
}
