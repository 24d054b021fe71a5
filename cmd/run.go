// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/plist"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
	runProfile    string
	runProfileOut string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE...",
	Short: "Run list scripts",
	Long: `Run scripts supplied via the command line or files.  All arguments
are evaluated in a single environment, in order.  Evaluation stops at the
first error.

Profiling:
  --profile callgrind   Write a callgrind profile to --profile-out
  --profile pprof       Write a CPU profile with operation labels to --profile-out
  --profile otel        Write an OpenTelemetry span per operation to --profile-out
  --profile opencensus  Write an OpenCensus span per operation to --profile-out`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exprs, err := runReadExpressions(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		var configs []interp.Config
		prof, err := newProfiler(context.Background(), runProfile, runProfileOut)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if prof != nil {
			configs = append(configs, interp.WithProfiler(prof))
		}
		env, err := newEnv(os.Stdout, configs...)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		code := 0
		for i := range exprs {
			name := args[i]
			if runExpression {
				name = "-e"
			}
			if err := runSource(env, name, exprs[i]); err != nil {
				renderError(err)
				code = 1
				break
			}
		}
		if prof != nil {
			if err := prof.Complete(); err != nil {
				fmt.Fprintln(os.Stderr, "profiler:", err)
				code = 1
			}
		}
		os.Exit(code)
	},
}

// runSource evaluates the statements in source.  With --print the value
// of each expression statement, other than None, is written to stdout.
func runSource(env *interp.Env, name string, source []byte) error {
	stmts, err := env.Read(name, bytes.NewReader(source))
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		v, err := env.Eval(stmt)
		if err != nil {
			return err
		}
		if !runPrint || v == plist.None {
			continue
		}
		s, err := plist.Repr(v)
		if err != nil {
			return err
		}
		fmt.Fprintln(env.Runtime.Stdout, s) //nolint:errcheck // best-effort output
	}
	return nil
}

func runReadExpressions(args []string) ([][]byte, error) {
	exprs := make([][]byte, len(args))
	if runExpression {
		for i := range args {
			exprs[i] = []byte(args[i])
		}
		return exprs, nil
	}
	for i, path := range args {
		b, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			return nil, err
		}
		exprs[i] = b
	}
	return exprs, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as statements")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
	runCmd.Flags().StringVar(&runProfile, "profile", "",
		`Profile list operations: "callgrind", "pprof", "otel" or "opencensus".`)
	runCmd.Flags().StringVar(&runProfileOut, "profile-out", "",
		"File receiving the profile.")
}
