// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/plist/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command.  Embedders can pass WithEnv
// to predefine the variables of an environment in every document.
func LSPCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)

	var (
		stdio      bool
		port       int
		sourceFile string
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the Language Server Protocol server",
		Long: `Start an LSP server for list scripts.

The language server provides diagnostics from the parser and the linter,
hover documentation, go-to-definition, references, completion, signature
help, document symbols, rename, formatting and quick fixes.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  plist lsp                       Start with stdio transport
  plist lsp --port 7998           Start with TCP on port 7998
  plist lsp -f prelude.pl         Treat variables bound by prelude.pl as defined

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "plist lsp --stdio" for .pl files.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			serverOpts := []lsp.Option{lsp.WithLogger(logger)}
			env := cfg.env
			if sourceFile != "" {
				env, err = newEnv(io.Discard)
				if err != nil {
					return err
				}
				if _, err := env.LoadFile(sourceFile); err != nil {
					renderError(err)
					return fmt.Errorf("failed to load %s", sourceFile)
				}
			}
			if env != nil {
				serverOpts = append(serverOpts, lsp.WithEnv(env))
			}

			addr := ""
			if !stdio && port > 0 {
				addr = fmt.Sprintf("localhost:%d", port)
			}
			if err := lsp.New(serverOpts...).Serve(addr); err != nil {
				fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err) //nolint:errcheck // best-effort output
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a script and predefine the variables it binds.")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
