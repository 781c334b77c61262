package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newMatchCmd(opts *options) *cobra.Command {
	matchCmd := &cobra.Command{
		Use:   "match",
		Short: "Rank matches from the record store",
	}

	matchCmd.AddCommand(&cobra.Command{
		Use:   "project <id>",
		Short: "Rank professionals for one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts, func(ctx context.Context, s *session) error {
				result, err := s.directory.ProfessionalsForProject(ctx, args[0], s.rank...)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				return printProjectMatches(cmd.OutOrStdout(), s.lang, *result)
			})
		},
	})

	matchCmd.AddCommand(&cobra.Command{
		Use:   "professional <id>",
		Short: "Rank projects for one professional",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts, func(ctx context.Context, s *session) error {
				result, err := s.directory.ProjectsForProfessional(ctx, args[0], s.rank...)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				return printProfessionalProjects(cmd.OutOrStdout(), s.lang, *result)
			})
		},
	})

	matchCmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Rank professionals for every project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts, func(ctx context.Context, s *session) error {
				result, err := s.directory.AllProjectMatches(ctx, s.rank...)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				for _, row := range result {
					if err := printProjectMatches(cmd.OutOrStdout(), s.lang, row); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})

	matchCmd.AddCommand(&cobra.Command{
		Use:   "reports",
		Short: "Suggest professionals for every citizen report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts, func(ctx context.Context, s *session) error {
				result, err := s.directory.AllReportMatches(ctx, s.rank...)
				if err != nil {
					return err
				}
				if opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				for _, row := range result {
					if err := printReportMatches(cmd.OutOrStdout(), row); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})

	return matchCmd
}

func runMatch(cmd *cobra.Command, opts *options, fn func(context.Context, *session) error) error {
	s, err := opts.session()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	return fn(ctx, s)
}
