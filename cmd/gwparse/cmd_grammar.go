package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/geneweb/grammar"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Tools for the EBNF grammar of the gw format",
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarShowCmd())
	cmd.AddCommand(newGrammarMatchCmd())

	return cmd
}

// loadGrammar returns the embedded grammar, or the one in path.
func loadGrammar(path, start string) (ebnf.Grammar, error) {
	if path == "" {
		return grammar.Load()
	}
	return grammar.LoadFile(path, start)
}

func printGrammarErrors(cmd *cobra.Command, err error) {
	for _, e := range grammar.Errors(err) {
		fmt.Fprintln(cmd.ErrOrStderr(), e)
	}
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Parse and verify an EBNF grammar (the embedded one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			g, err := loadGrammar(path, startProduction)
			if err != nil {
				printGrammarErrors(cmd, err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok, %d productions\n", len(g))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", grammar.Start, "start production for verification (if empty, only checks syntax)")

	return cmd
}

func newGrammarShowCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the embedded grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list {
				_, err := cmd.OutOrStdout().Write(grammar.Source())
				return err
			}
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			for _, name := range grammar.Productions(g) {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list the production names instead")

	return cmd
}

func newGrammarMatchCmd() *cobra.Command {
	var production string

	cmd := &cobra.Command{
		Use:   "match <file>",
		Short: "Check a .gw file against the grammar alone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			input, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read gw file: %w", err)
			}

			ok, pos, err := grammar.NewMatcher(g).MatchAll(production, input)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s:%s: does not match %s", args[0], pos, production)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: matches %s\n", args[0], production)
			return nil
		},
	}

	cmd.Flags().StringVarP(&production, "production", "p", grammar.Start, "production the whole file must match")

	return cmd
}
