package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pyjs-lang/pyjsc/internal/compiler/compile"
	"github.com/pyjs-lang/pyjsc/internal/compiler/registry"
)

const (
	replBanner  = "pyjsc"
	replVersion = "0.1.0"
	replPrompt  = "pyjsc> "
)

func newReplCmd() *cobra.Command {
	var selfKeyword string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Compile pyjsc statements one at a time against a shared façade",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(selfKeyword)
		},
	}

	cmd.Flags().StringVar(&selfKeyword, "self-keyword", "self", `the method-receiver keyword ("self" or "this")`)
	return cmd
}

// runRepl loops reading one statement at a time and printing either
// its emitted JS or its diagnostics — never executing anything. Line-
// editing, history, and colored chrome are grounded on
// akashmaji946-go-mix/repl/repl.go's Repl struct and main loop.
func runRepl(selfKeyword string) error {
	blue := color.New(color.FgBlue)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	blue.Printf("%s v%s\n", replBanner, replVersion)
	yellow.Println("type .exit to quit")

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = home + "/.pyjsc_history"
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       ".exit",
	})
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	c := compile.NewWithDialect(dialectFor(selfKeyword))
	c.RegisterFunction("print", registry.Variadic)

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			return nil
		}

		executeWithRecovery(c, line, green, red)
	}
}

func executeWithRecovery(c *compile.Compiler, line string, ok, errColor *color.Color) {
	defer func() {
		if r := recover(); r != nil {
			errColor.Printf("panic: %v\n", r)
		}
	}()

	result := c.Compile(line + "\n")
	if !result.Success {
		for _, e := range result.Errors.Lexer {
			errColor.Printf("lexer: %d:%d: %s\n", e.Line, e.Col, e.Error)
		}
		for _, e := range result.Errors.Parser {
			errColor.Printf("parser: %d:%d: %s\n", e.Line, e.Col, e.Error)
		}
		for _, e := range result.Errors.Transpiler {
			errColor.Printf("transpiler: %d:%d: %s\n", e.Line, e.Col, e.Error)
		}
		return
	}

	ok.Println(result.Raw)
}
