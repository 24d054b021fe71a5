// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/luthersystems/plist/interp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Option configures an exported command factory (DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *interp.Env
	out io.Writer
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{out: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithEnv injects a configured environment.  The doc command describes
// the variables bound in env in addition to the builtins and methods.
func WithEnv(env *interp.Env) Option {
	return func(c *cmdConfig) { c.env = env }
}

// WithOutput makes a command write its output to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(c *cmdConfig) { c.out = w }
}

// optionsCmd prints the effective configuration.
var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the effective configuration",
	Long: `Show the configuration assembled from the config file, PLIST_
environment variables and command line flags.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		writeSettings(cmd.OutOrStdout(), viper.AllSettings())
	},
}

func writeSettings(w io.Writer, settings map[string]interface{}) {
	keys := maps.Keys(settings)
	slices.Sort(keys)
	if f := viper.ConfigFileUsed(); f != "" {
		fmt.Fprintf(w, "# %s\n", f) //nolint:errcheck // best-effort output
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %v\n", k, settings[k]) //nolint:errcheck // best-effort output
	}
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
