package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyjs-lang/pyjsc/internal/compiler/format"
	"github.com/pyjs-lang/pyjsc/internal/compiler/lexer"
)

func newFmtCmd() *cobra.Command {
	var showDiff bool
	var selfKeyword string

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Re-space a pyjsc source file to its canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}
			original := string(data)

			l := lexer.NewWithDialect(original, dialectFor(selfKeyword))
			toks := l.AllTokens()
			if l.Errors.HasErrors() {
				fmt.Fprintln(os.Stderr, l.Errors.String())
				return fmt.Errorf("lexer reported errors, refusing to format")
			}

			formatted := format.Tokens(toks)

			if showDiff {
				if formatted != original {
					fmt.Printf("--- %s\n+++ %s (formatted)\n", path, path)
					printSimpleDiff(original, formatted)
				}
				return nil
			}

			if formatted == original {
				return nil
			}
			return os.WriteFile(path, []byte(formatted), 0o644)
		},
	}

	cmd.Flags().BoolVarP(&showDiff, "diff", "d", false, "print a diff instead of rewriting the file")
	cmd.Flags().StringVar(&selfKeyword, "self-keyword", "self", `the method-receiver keyword ("self" or "this")`)
	return cmd
}

func printSimpleDiff(a, b string) {
	aLines := strings.Split(a, "\n")
	bLines := strings.Split(b, "\n")

	maxLen := len(aLines)
	if len(bLines) > maxLen {
		maxLen = len(bLines)
	}

	for i := 0; i < maxLen; i++ {
		var aLine, bLine string
		if i < len(aLines) {
			aLine = aLines[i]
		}
		if i < len(bLines) {
			bLine = bLines[i]
		}
		if aLine != bLine {
			if i < len(aLines) {
				fmt.Printf("-%s\n", aLine)
			}
			if i < len(bLines) {
				fmt.Printf("+%s\n", bLine)
			}
		}
	}
}
