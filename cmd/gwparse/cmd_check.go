package main

import (
	"fmt"

	"github.com/dhamidi/geneweb/gw"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse files in parallel and report their diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := parseOptions(cmd)
			if err != nil {
				return err
			}

			results, err := gw.ParseFiles(cmd.Context(), args, opts, settings.Workers)
			if err != nil {
				return fmt.Errorf("check files: %w", err)
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				switch {
				case r.Err != nil:
					failed++
					fmt.Fprintf(out, "%s: FAILED: %v\n", r.Path, r.Err)
				case !r.Genealogy.Valid:
					failed++
					fmt.Fprintf(out, "%s: %s\n", r.Path, r.Genealogy.ValidationSummary())
				default:
					fmt.Fprintf(out, "%s: ok, %s\n", r.Path, r.Collector.Summary())
				}
				if !quiet && r.Collector != nil && r.Collector.Len() > 0 {
					fmt.Fprint(out, r.Collector.Report())
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(results))
			}
			return nil
		},
	}

	addParseFlags(cmd)
	cmd.Flags().IntP("workers", "j", 0, "files parsed at once (0 for one per CPU)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print one line per file")

	return cmd
}
