package main

import (
	"encoding/json"
	"fmt"

	"github.com/dhamidi/geneweb/gw"
	"github.com/spf13/cobra"
)

func newEstimateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "estimate <file>",
		Short: "Estimate the memory needed to parse a file and pick a driver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			est, err := gw.EstimateFileMemory(args[0], settings.StreamingThresholdMB<<20)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(est, "", "  ")
				if err != nil {
					return fmt.Errorf("encode estimate: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintf(out, "file size:   %.2f MB (%d bytes)\n", est.FileSizeMB, est.FileSizeBytes)
			fmt.Fprintf(out, "buffered:    %.2f MB (%d bytes)\n", est.BufferedMB, est.BufferedBytes)
			fmt.Fprintf(out, "streaming:   %.2f MB (%d bytes, %.1f%% less)\n", est.StreamingMB, est.StreamingBytes, est.SavingPercent)
			fmt.Fprintf(out, "recommended: %s\n", est.Recommended)
			return nil
		},
	}

	cmd.Flags().Int64("threshold-mb", gw.DefaultStreamingThreshold>>20, "file size above which auto mode streams")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the estimate as JSON")

	return cmd
}
