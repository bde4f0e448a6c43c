// Command pyjsc is a thin demonstration front-end over the compile
// façade — never a replacement for it. It never executes the JS it
// emits; every subcommand only prints text (compiled output, a token
// dump, reformatted source, or REPL echo) plus diagnostics, exactly
// like a direct compile.Compiler.Compile call would. Grounded on
// cmd/gmx's flat-CLI shape, rebuilt on spf13/cobra since this surface
// has real subcommands where the teacher's had one verb.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// invocationID is stamped once per process and threaded through every
// log line this run emits; it is never part of any façade result.
var invocationID = uuid.New().String()

var log = logrus.New()

func newRootCmd() *cobra.Command {
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)

	root := &cobra.Command{
		Use:           "pyjsc",
		Short:         "Compile the pyjsc DSL to JavaScript",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newCompileCmd())
	root.AddCommand(newTokensCmd())
	root.AddCommand(newFmtCmd())
	root.AddCommand(newReplCmd())

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pyjsc: %v\n", err)
		os.Exit(1)
	}
}
