// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/interp/x/debugger"
	"github.com/luthersystems/plist/interp/x/debugger/dapserver"
	"github.com/spf13/cobra"
)

var (
	debugPort        int
	debugStdio       bool
	debugStopOnEntry bool
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] FILE",
	Short: "Run a script under the DAP debugger",
	Long: `Start a Debug Adapter Protocol server for a script.  Evaluation begins
once the client finishes its configuration and pauses at breakpoints,
failed statements (with the "all" exception filter) and steps.  Steps
advance one statement at a time.

Transport modes:
  --port N     Listen for a DAP client on TCP port N (default: 4711)
  --stdio      Use stdin/stdout for DAP communication

Examples:
  plist debug script.pl                   Debug with TCP on port 4711
  plist debug --stdio script.pl           Debug with stdio transport
  plist debug --stop-on-entry script.pl   Pause at the first statement`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path, err := filepath.Abs(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger, err := newLogger()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		dbg := debugger.New(
			debugger.WithStopOnEntry(debugStopOnEntry),
			debugger.WithLogger(logger),
		)
		dbg.Enable()
		env, err := newEnv(os.Stderr, interp.WithDebugger(dbg))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if !debugStdio {
			// Program output shares stdout only when DAP does not.
			env.Runtime.Stdout = os.Stdout
		}
		srv := dapserver.New(dbg, dapserver.WithSourceRoot(filepath.Dir(path)))
		evalDone := debugFile(env, dbg, path)

		if debugStdio {
			logger.Info().Msg("DAP debugger using stdio transport")
			if err := srv.ServeStdio(os.Stdin, os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, "dap server error:", err)
			}
		} else {
			addr := fmt.Sprintf("localhost:%d", debugPort)
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				fmt.Fprintf(os.Stderr, "cannot listen on %s: %v\n", addr, err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "DAP debugger listening on %s\n", addr)
			err = srv.ServeListener(ln)
			ln.Close() //nolint:errcheck // best-effort cleanup
			if err != nil {
				fmt.Fprintln(os.Stderr, "dap server error:", err)
			}
		}

		if err := <-evalDone; err != nil {
			renderError(err)
			os.Exit(1)
		}
	},
}

// debugFile evaluates the file at path once dbg is ready and reports the
// exit to dbg.  The evaluation error is delivered on the returned channel.
func debugFile(env *interp.Env, dbg *debugger.Engine, path string) <-chan error {
	done := make(chan error, 1)
	go func() {
		<-dbg.ReadyCh()
		_, err := env.LoadFile(path)
		code := 0
		if err != nil {
			code = 1
		}
		dbg.NotifyExit(code)
		done <- err
	}()
	return done
}

func init() {
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().IntVar(&debugPort, "port", 4711,
		"TCP port for the DAP server")
	debugCmd.Flags().BoolVar(&debugStdio, "stdio", false,
		"Use stdin/stdout for DAP communication")
	debugCmd.Flags().BoolVar(&debugStopOnEntry, "stop-on-entry", false,
		"Pause before the first statement")
}
