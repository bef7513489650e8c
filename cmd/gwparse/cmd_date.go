package main

import (
	"fmt"
	"io"

	"github.com/dhamidi/geneweb/gw/date"
	"github.com/spf13/cobra"
)

func newDateCmd() *cobra.Command {
	var death bool

	cmd := &cobra.Command{
		Use:   "date <text>...",
		Short: "Parse gw dates and show how they are understood",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parse := date.Parse
			if death {
				parse = date.ParseDeath
			}

			out := cmd.OutOrStdout()
			bad := 0
			for _, text := range args {
				d, err := parse(text)
				if err != nil {
					bad++
					fmt.Fprintf(out, "%s\terror: %v\n", text, err)
					continue
				}
				printDate(out, text, d)
			}
			if bad > 0 {
				return fmt.Errorf("%d invalid dates", bad)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&death, "death", false, "accept the death-type prefixes k, m, e and s")

	return cmd
}

func printDate(w io.Writer, text string, d *date.Date) {
	fmt.Fprintf(w, "%s\n", text)
	switch {
	case d.Unknown:
		fmt.Fprintf(w, "  unknown\n")
	case d.IsText():
		fmt.Fprintf(w, "  text:      %s\n", d.Text)
	default:
		fmt.Fprintf(w, "  day:       %d\n", d.Day)
		fmt.Fprintf(w, "  month:     %d\n", d.Month)
		fmt.Fprintf(w, "  year:      %d\n", d.Year)
		fmt.Fprintf(w, "  qualifier: %s\n", d.Qualifier)
		fmt.Fprintf(w, "  calendar:  %s\n", d.Calendar)
		if len(d.Alternatives) > 0 {
			fmt.Fprintf(w, "  %s:  %v\n", d.Alternation, d.Alternatives)
		}
	}
	if d.Death != date.DeathNormal {
		fmt.Fprintf(w, "  death:     %s\n", d.Death)
	}
	if iso := d.ISO(); iso != "" {
		fmt.Fprintf(w, "  iso:       %s\n", iso)
	}
	fmt.Fprintf(w, "  display:   %s\n", d.Display())
}
