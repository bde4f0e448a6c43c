package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyjs-lang/pyjsc/internal/compiler/lexer"
)

func newTokensCmd() *cobra.Command {
	var selfKeyword string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Dump the lexer's token stream for a pyjsc source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}

			l := lexer.NewWithDialect(string(data), dialectFor(selfKeyword))
			toks := l.AllTokens()

			for _, t := range toks {
				fmt.Printf("%-10s %4d:%-3d %q\n", t.Type, t.Loc.Line, t.Loc.Col, t.Lexeme)
			}

			if l.Errors.HasErrors() {
				fmt.Fprintln(os.Stderr, l.Errors.String())
				return fmt.Errorf("lexer reported errors")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&selfKeyword, "self-keyword", "self", `the method-receiver keyword ("self" or "this")`)
	return cmd
}
