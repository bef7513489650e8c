package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/geneweb/format"
	"github.com/dhamidi/geneweb/gw/decode"
	"github.com/dhamidi/geneweb/gw/parser"
	"github.com/spf13/cobra"
)

// readSource reads path and decodes it to UTF-8.
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read gw file: %w", err)
	}
	input, choice, derr := decode.Bytes(data)
	if derr != nil {
		derr.File = path
		return nil, derr
	}
	log.Debugf("%s: decoded as %s", path, choice.Name)
	return input, nil
}

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the token stream of a .gw file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readSource(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			l := parser.NewLexer(input, args[0], nil)
			for {
				tok := l.NextToken()
				pos := tok.Span.Start
				fmt.Fprintf(out, "%d:%d\t%s\t%q\n", pos.Line, pos.Column, tok.Kind, tok.Literal)
				if tok.Kind == parser.TokenEOF {
					return nil
				}
			}
		},
	}
}

func newBlocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks <file>",
		Short: "Dump the syntax blocks of a .gw file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readSource(args[0])
			if err != nil {
				return err
			}

			blocks, err := parser.NewFromBytes(input, parser.WithFile(args[0])).ParseAll()
			if err != nil {
				return fmt.Errorf("parse blocks: %w", err)
			}
			if err := format.NewBlockJSONEncoder(cmd.OutOrStdout()).Encode(blocks); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
