// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL",
	Long: `Start an interactive read-eval-print loop.

Line editing, tab completion of names and list methods, and command history
are supported via readline.  Use Ctrl-D to exit.

Example REPL session:
  plist> x = [1, 2, 3]
  plist> kind(x)
  'int64'
  plist> x.append(0.5)
  plist> kind(x)
  'generic'
  plist> x[::-1]
  [0.5, 3, 2, 1]`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logger, err := newLogger()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts := []repl.Option{
			repl.WithColor(colorMode()),
			repl.WithWrapWidth(viper.GetInt("wrap-width")),
			repl.WithEnvConfig(interp.WithLogger(logger)),
		}
		if n := viper.GetInt64("max-repeat"); n > 0 {
			opts = append(opts, repl.WithEnvConfig(interp.WithMaxRepeatLength(n)))
		}
		repl.RunRepl(filepath.Base(os.Args[0])+"> ", opts...)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)

	replCmd.Flags().Int("wrap-width", 0,
		"Wrap printed values at this many columns (0 disables wrapping).")
	_ = viper.BindPFlag("wrap-width", replCmd.Flags().Lookup("wrap-width"))
}
