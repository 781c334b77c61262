package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alkarama/hub/internal/usecase"
)

type tokensResult struct {
	Tokens    []string `json:"tokens"`
	Canonical []string `json:"canonical"`
}

func newTokensCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <text...>",
		Short: "Show how text is tokenized and folded onto concepts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := opts.logger()
			if err != nil {
				return err
			}
			matcher, err := opts.matcher(log)
			if err != nil {
				return err
			}
			vocabulary := matcher.Vocabulary()

			tokens := usecase.Tokenize(strings.Join(args, " "))

			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), tokensResult{
					Tokens:    tokens,
					Canonical: vocabulary.Canonicalize(tokens),
				})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TOKEN\tCANONICAL\tNOTE")
			for _, tok := range tokens {
				canonical := "-"
				if folded := vocabulary.Canonicalize([]string{tok}); len(folded) > 0 {
					canonical = folded[0]
				}

				note := ""
				switch {
				case vocabulary.IsStopWord(canonical):
					note = "stop word"
				case canonical != "-":
					if _, known := vocabulary.Lookup(tok); !known {
						note = "unknown"
					}
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", tok, canonical, note)
			}
			return tw.Flush()
		},
	}
}
