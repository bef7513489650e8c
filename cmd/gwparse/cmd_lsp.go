package main

import (
	"time"

	"github.com/dhamidi/geneweb/lsp"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var poll time.Duration

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := settings.Options()
			if err != nil {
				return err
			}
			server := lsp.NewServer(version, opts, poll)
			return server.RunStdio()
		},
	}

	cmd.Flags().DurationVar(&poll, "poll", 2*time.Second, "how often to look for changed files on disk (0 disables)")

	return cmd
}
