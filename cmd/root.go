// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/plist/diagnostic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plist",
	Short: "plist: a list scripting language with adaptive storage",
	Long: `plist evaluates scripts that manipulate dynamically typed lists.  Each
list picks the narrowest storage able to hold its elements (empty, int64,
float64, list, tuple or generic) and widens it as other values arrive.

Getting started:
  plist run script.pl              Run a script file
  plist run -e 'x = [1, 2]' -e x   Evaluate statements
  plist repl                       Start an interactive REPL
  plist debug script.pl            Debug a script from an editor (DAP)
  plist doc append                 Show documentation for a method or builtin
  plist options                    Show the effective configuration

Language overview:
  Statements are separated by newlines or ';' and '#' starts a comment.
  Lists are written [1, 2, 3] and tuples (1, 2).  Indexing and slicing
  follow x[i], x[start:stop:step].  Lists support the methods append,
  extend, insert, remove, pop, index, count, clear, reverse and copy, the
  operators + * == != < <= > >= and in, and del x[i].  The kind builtin
  reports the storage strategy of a list.

Configuration is read from $HOME/.plist.yaml (or --config) and from
environment variables prefixed with PLIST_, e.g. PLIST_LOG_LEVEL=debug.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.plist.yaml)")
	rootCmd.PersistentFlags().String("color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	rootCmd.PersistentFlags().String("log-level", "disabled",
		`Level of interpreter log events written to stderr (e.g. "debug", "info").`)
	rootCmd.PersistentFlags().Int64("max-repeat", 0,
		"Largest list repetition may produce (0 uses the interpreter default).")
	for _, name := range []string{"color", "log-level", "max-repeat"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".plist")
	}

	viper.SetEnvPrefix("plist")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil && cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Unable to read config file:", err)
		os.Exit(1)
	}
}

// newLogger returns the logger configured by --log-level.
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	if level == zerolog.Disabled {
		return zerolog.Nop(), nil
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: colorMode() == diagnostic.ColorNever}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
