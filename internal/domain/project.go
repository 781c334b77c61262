package domain

// Project represents a rebuilding project published by the administrators
type Project struct {
	ID        RecordID `json:"id"`
	Title     string   `json:"title"`
	TitleEn   string   `json:"title_en,omitempty"`
	TitleAr   string   `json:"title_ar,omitempty"`
	Summary   string   `json:"summary"`
	SummaryEn string   `json:"summary_en,omitempty"`
	SummaryAr string   `json:"summary_ar,omitempty"`
	Tags      TextList `json:"tags"`
	Status    string   `json:"status,omitempty"`
	Cost      Amount   `json:"cost,omitempty"`
	Donated   Amount   `json:"donated,omitempty"`
}

// LocalizedTitle returns the title in the preferred language, or "" when none is set
func (p *Project) LocalizedTitle(lang string) string {
	return pickLocalized(lang, p.Title, p.TitleEn, p.TitleAr)
}

// LocalizedSummary returns the summary in the preferred language, or "" when none is set
func (p *Project) LocalizedSummary(lang string) string {
	return pickLocalized(lang, p.Summary, p.SummaryEn, p.SummaryAr)
}
