package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyjs-lang/pyjsc/internal/cache"
	"github.com/pyjs-lang/pyjsc/internal/compiler/compile"
	"github.com/pyjs-lang/pyjsc/internal/compiler/token"
	"github.com/pyjs-lang/pyjsc/internal/hostmanifest"
)

func newCompileCmd() *cobra.Command {
	var manifestPath string
	var cachePath string
	var selfKeyword string

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a pyjsc source file to JavaScript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading file: %w", err)
			}

			c := newConfiguredCompiler(selfKeyword)

			if manifestPath != "" {
				if err := hostmanifest.LoadAndApply(manifestPath, c); err != nil {
					return fmt.Errorf("loading manifest: %w", err)
				}
			}

			runner := compilerRunner(c)
			if cachePath != "" {
				cached, err := cache.Open(cachePath, c)
				if err != nil {
					return fmt.Errorf("opening cache: %w", err)
				}
				runner = cached.Compile
			}

			result := runner(string(data))
			if !result.Success {
				printErrors(result.Errors)
				return fmt.Errorf("compilation failed")
			}

			fmt.Println(result.Final)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "path to a YAML host registration manifest")
	cmd.Flags().StringVar(&cachePath, "cache", "", "path to a SQLite compile-result cache")
	cmd.Flags().StringVar(&selfKeyword, "self-keyword", "self", `the method-receiver keyword ("self" or "this")`)

	return cmd
}

func compilerRunner(c *compile.Compiler) func(string) compile.Result {
	return c.Compile
}

func newConfiguredCompiler(selfKeyword string) *compile.Compiler {
	d := dialectFor(selfKeyword)
	c := compile.NewWithDialect(d)
	c.Log = log.WithField("invocation_id", invocationID)
	return c
}

func printErrors(groups compile.ErrorGroups) {
	for _, e := range groups.Lexer {
		fmt.Fprintf(os.Stderr, "lexer: %d:%d: %s\n", e.Line, e.Col, e.Error)
	}
	for _, e := range groups.Parser {
		fmt.Fprintf(os.Stderr, "parser: %d:%d: %s\n", e.Line, e.Col, e.Error)
	}
	for _, e := range groups.Transpiler {
		fmt.Fprintf(os.Stderr, "transpiler: %d:%d: %s\n", e.Line, e.Col, e.Error)
	}
}

func dialectFor(selfKeyword string) token.Dialect {
	if selfKeyword == "" {
		return token.DefaultDialect()
	}
	return token.Dialect{SelfKeyword: selfKeyword}
}
