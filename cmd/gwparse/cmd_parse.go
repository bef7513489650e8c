package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/geneweb/format"
	"github.com/dhamidi/geneweb/gw"
	"github.com/dhamidi/geneweb/gw/diag"
	"github.com/spf13/cobra"
)

// addParseFlags registers the flags that feed gw.Options. Their values
// reach the command through settings.
func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "stop at the first error")
	cmd.Flags().String("stream", "auto", "driver selection (auto, always, never)")
	cmd.Flags().Int64("threshold-mb", gw.DefaultStreamingThreshold>>20, "file size above which auto mode streams")
	cmd.Flags().Bool("no-validate", false, "skip the cross-entity checks")
}

func parseOptions(cmd *cobra.Command) (gw.Options, error) {
	opts, err := settings.Options()
	if err != nil {
		return opts, err
	}
	if noValidate, _ := cmd.Flags().GetBool("no-validate"); noValidate {
		opts.Validate = false
	}
	return opts, nil
}

func newParseCmd() *cobra.Command {
	var outputFormat string
	var diagnostics string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a .gw file and dump the genealogy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			opts, err := parseOptions(cmd)
			if err != nil {
				return err
			}

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(cmd.OutOrStdout())
			case "lines":
				encoder = format.NewLineEncoder(cmd.OutOrStdout())
			case "summary":
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			g, c, err := gw.ParseFile(filename, opts)
			if diagnostics != "" {
				if derr := writeDiagnostics(diagnostics, c); derr != nil {
					return derr
				}
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", filename, err)
			}

			if encoder == nil {
				printSummary(cmd.OutOrStdout(), filename, g, c)
				return nil
			}
			if err := encoder.Encode(g); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if outputFormat == "json" {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			if c.Len() > 0 {
				log.Noticef("%s: %s", filename, c.Summary())
			}
			return nil
		},
	}

	addParseFlags(cmd)
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, lines, summary)")
	cmd.Flags().StringVar(&diagnostics, "diagnostics", "", "also write diagnostics as JSON to this file (- for stderr)")

	return cmd
}

func writeDiagnostics(path string, c *diag.Collector) error {
	if path == "-" {
		return format.EncodeDiagnostics(os.Stderr, c)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create diagnostics file: %w", err)
	}
	defer f.Close()
	if err := format.EncodeDiagnostics(f, c); err != nil {
		return fmt.Errorf("write diagnostics: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, filename string, g *gw.Genealogy, c *diag.Collector) {
	s := g.Stats()
	fmt.Fprintf(w, "%s\n", filename)
	fmt.Fprintf(w, "  encoding:   %s\n", g.Metadata.Encoding)
	fmt.Fprintf(w, "  persons:    %d (%d male, %d female, %d unknown)\n", s.Persons, s.Males, s.Females, s.UnknownSex)
	fmt.Fprintf(w, "  families:   %d (%d with children, %d children)\n", s.Families, s.FamiliesWithKids, s.Children)
	fmt.Fprintf(w, "  dates:      %d births, %d deaths\n", s.WithBirthDate, s.WithDeathDate)
	fmt.Fprintf(w, "  events:     %d\n", s.Events)
	fmt.Fprintf(w, "  notes:      %d\n", s.Notes)
	fmt.Fprintf(w, "  diagnostics: %s\n", c.Summary())
	fmt.Fprintf(w, "  %s\n", g.ValidationSummary())
}
