package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alkarama/hub/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printProjectMatches(w io.Writer, lang string, row domain.ProjectMatches) error {
	fmt.Fprintf(w, "Project %s: %s\n", row.Project.ID, row.Project.LocalizedTitle(lang))
	return printProfessionals(w, row.Professionals)
}

func printReportMatches(w io.Writer, row domain.ReportMatches) error {
	fmt.Fprintf(w, "Report %s: %s\n", row.Report.ID, row.Report.Title)
	return printProfessionals(w, row.Professionals)
}

func printProfessionals(w io.Writer, matches []domain.ProfessionalMatch) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "  no matching professionals")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "  RANK\tSCORE\tID\tNAME\tPROFESSION\tMATCHED")
	for i, m := range matches {
		p := m.Professional
		fmt.Fprintf(tw, "  %d\t%d\t%s\t%s\t%s\t%s\n",
			i+1, m.Score, p.ID, displayName(p), p.ProfessionText(), matchedList(m.MatchedTokens))
	}
	return tw.Flush()
}

func printProfessionalProjects(w io.Writer, lang string, row domain.ProfessionalProjects) error {
	fmt.Fprintf(w, "Professional %s: %s\n", row.Professional.ID, displayName(row.Professional))
	if len(row.Projects) == 0 {
		_, err := fmt.Fprintln(w, "  no matching projects")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "  RANK\tSCORE\tID\tTITLE\tMATCHED")
	for i, m := range row.Projects {
		fmt.Fprintf(tw, "  %d\t%d\t%s\t%s\t%s\n",
			i+1, m.Score, m.Project.ID, m.Project.LocalizedTitle(lang), matchedList(m.MatchedTokens))
	}
	return tw.Flush()
}

func displayName(u domain.User) string {
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	return u.ID.String()
}

func matchedList(tokens []string) string {
	if len(tokens) == 0 {
		return "-"
	}
	return strings.Join(tokens, ",")
}
