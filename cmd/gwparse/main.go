package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dhamidi/geneweb/config"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("geneweb.cli")

// settingFlags maps config keys to the flag names that override them.
var settingFlags = map[string]string{
	"strict":                 "strict",
	"streaming":              "stream",
	"streaming_threshold_mb": "threshold-mb",
	"workers":                "workers",
	"log.verbosity":          "verbose",
	"log.file":               "log-file",
}

// settings is loaded before any subcommand runs.
var settings = config.Default()

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "gwparse",
		Short:         "Read, check and explore GeneWeb .gw genealogy files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader()
			for key, name := range settingFlags {
				if f := cmd.Flags().Lookup(name); f != nil {
					if err := loader.BindFlag(key, f); err != nil {
						return err
					}
				}
			}
			cfg, err := loader.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			settings = cfg

			var logFile *string
			if cfg.Log.File != "" {
				logFile = &cfg.Log.File
			}
			commonlog.Configure(cfg.Log.Verbosity, logFile)
			if cfg.Source != "" {
				log.Infof("config from %s", cfg.Source)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.geneweb/config.yaml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "log more; repeat for more detail")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newDateCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newBlocksCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
