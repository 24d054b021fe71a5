// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/plist/lint"
	"github.com/spf13/cobra"
)

var (
	lintJSON     bool
	lintChecks   string
	lintListAll  bool
	lintExcludes []string
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [files...]",
	Short: "Run static analysis checks on list scripts",
	Long: `Run static analysis checks on list scripts.

The linter reports likely mistakes, similar to "go vet" for Go.  Each check
is an independent analyzer that examines the parsed statements and reports
diagnostics.  Style is left to "plist fmt".

With no files, reads from stdin.  With files, analyzes each file and
reports all findings to stderr.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files, syntax errors)

To suppress a specific diagnostic, add a comment on the same line:
  x = x  # nolint:self-assign

To suppress all checks on a line:
  x = x  # nolint

Available checks (use --checks to select specific ones):
` + lint.AnalyzerDoc() + `
Examples:
  plist lint file.pl                       # Lint a single file
  plist lint --json file.pl                # Output diagnostics as JSON
  plist lint --checks=zero-step file.pl    # Run only specific checks
  plist lint --list                        # List available checks
  plist lint --exclude='testdata' ./...    # Exclude a directory
  cat file.pl | plist lint                 # Lint from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(lintMain(os.Stdin, os.Stdout, os.Stderr, args))
	},
}

// lintMain runs the lint command and returns its exit code.
func lintMain(stdin io.Reader, stdout, stderr io.Writer, args []string) int {
	if lintListAll {
		for _, name := range lint.AnalyzerNames() {
			fmt.Fprintln(stdout, name) //nolint:errcheck // best-effort output
		}
		return 0
	}

	analyzers, err := selectAnalyzers(lintChecks)
	if err != nil {
		fmt.Fprintf(stderr, "plist lint: %v\n", err) //nolint:errcheck // best-effort output
		return 2
	}
	l := &lint.Linter{Analyzers: analyzers}

	type input struct {
		name   string
		source []byte
	}
	var inputs []input
	if len(args) == 0 {
		src, err := io.ReadAll(stdin)
		if err != nil {
			fmt.Fprintf(stderr, "reading stdin: %v\n", err) //nolint:errcheck // best-effort output
			return 2
		}
		inputs = append(inputs, input{"<stdin>", src})
	} else {
		paths, err := expandArgs(args, lintExcludes)
		if err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort output
			return 2
		}
		for _, path := range paths {
			src, err := os.ReadFile(path) //#nosec G304
			if err != nil {
				fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort output
				return 2
			}
			inputs = append(inputs, input{path, src})
		}
	}

	var all []lint.Diagnostic
	for _, in := range inputs {
		diags, err := l.LintFile(in.source, in.name)
		if err != nil {
			renderErrorTo(stderr, err)
			return 2
		}
		if len(diags) > 0 && !lintJSON {
			if err := renderLintDiagnostics(stderr, diags, in.source); err != nil {
				return 2
			}
		}
		all = append(all, diags...)
	}
	if len(all) == 0 {
		return 0
	}
	if lintJSON {
		if err := lint.FormatJSON(stdout, all); err != nil {
			fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort output
			return 2
		}
	}
	return 1
}

// selectAnalyzers returns the default analyzers named in the comma
// separated list checks, or all of them when checks is empty.
func selectAnalyzers(checks string) ([]*lint.Analyzer, error) {
	analyzers := lint.DefaultAnalyzers()
	if checks == "" {
		return analyzers, nil
	}
	selected := make(map[string]bool)
	for _, name := range strings.Split(checks, ",") {
		selected[strings.TrimSpace(name)] = true
	}
	var filtered []*lint.Analyzer
	for _, a := range analyzers {
		if selected[a.Name] {
			filtered = append(filtered, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return filtered, nil
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().BoolVar(&lintJSON, "json", false,
		"Output diagnostics as JSON.")
	lintCmd.Flags().StringVar(&lintChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	lintCmd.Flags().BoolVar(&lintListAll, "list", false,
		"List available checks and exit.")
	lintCmd.Flags().StringArrayVar(&lintExcludes, "exclude", nil,
		"Glob pattern for files and directories to exclude (may be repeated).")
}
