// Copyright © 2024 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/luthersystems/plist/docs"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/plist"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

// DocCommand returns a command showing documentation for list methods and
// builtins.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		listMethods  bool
		listBuiltins bool
		width        int
		sourceFile   string
		guide        bool
	)
	cmd := &cobra.Command{
		Use:   "doc [flags] [QUERY]",
		Short: "Show documentation for list methods and builtins",
		Long: `Show documentation for the list methods and builtin functions.

With no query every method and builtin is listed.  A query names a method
(e.g. append), a builtin (e.g. len) or, after loading a script with -f, a
variable bound by the script.

Examples:
  plist doc                  List every method and builtin
  plist doc -m               List the list methods
  plist doc pop              Show docs for the pop method
  plist doc --guide          Print the language guide
  plist doc -f data.pl xs    Describe the variable xs after running data.pl`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := bufio.NewWriter(cfg.out)
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if guide {
				_, err := io.WriteString(out, docs.LangGuide)
				return err
			}
			env := cfg.env
			if sourceFile != "" {
				var err error
				env, err = newEnv(io.Discard)
				if err != nil {
					return err
				}
				if _, err := env.LoadFile(sourceFile); err != nil {
					renderError(err)
					return fmt.Errorf("failed to load %s", sourceFile)
				}
			}
			d := &docWriter{w: out, width: width}
			switch {
			case len(args) == 1:
				return d.query(env, args[0])
			case listMethods:
				d.section("Methods", interp.MethodDocs())
			case listBuiltins:
				d.section("Builtins", interp.BuiltinDocs())
			default:
				d.section("Methods", interp.MethodDocs())
				d.section("Builtins", interp.BuiltinDocs())
			}
			return d.err
		},
	}
	cmd.Flags().BoolVarP(&listMethods, "methods", "m", false,
		"List the list methods.")
	cmd.Flags().BoolVarP(&listBuiltins, "builtins", "b", false,
		"List the builtin functions.")
	cmd.Flags().IntVarP(&width, "width", "w", 72,
		"Wrap documentation at this width.")
	cmd.Flags().StringVarP(&sourceFile, "source-file", "f", "",
		"Evaluate a script before querying variables.")
	cmd.Flags().BoolVar(&guide, "guide", false,
		"Print the language guide.")
	return cmd
}

type docWriter struct {
	w     io.Writer
	width int
	err   error
}

func (d *docWriter) printf(format string, v ...interface{}) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, format, v...)
}

func (d *docWriter) section(title string, docs []interp.Doc) {
	d.printf("%s:\n", title)
	for _, doc := range docs {
		d.printf("  %s\n", doc.Signature)
	}
	d.printf("\n")
}

func (d *docWriter) entry(doc interp.Doc) {
	d.printf("%s\n\n%s\n", doc.Signature, indent.String(wordwrap.String(doc.Doc, d.width), 2))
}

func (d *docWriter) query(env *interp.Env, name string) error {
	found := false
	for _, doc := range interp.MethodDocs() {
		if doc.Name == name {
			d.entry(doc)
			found = true
		}
	}
	for _, doc := range interp.BuiltinDocs() {
		if doc.Name == name {
			if found {
				d.printf("\n")
			}
			d.entry(doc)
			found = true
		}
	}
	if env != nil {
		if v, err := env.Get(name); err == nil {
			if found {
				d.printf("\n")
			}
			d.variable(name, v)
			found = true
		}
	}
	if d.err != nil {
		return d.err
	}
	if !found {
		return fmt.Errorf("no documentation for %q", name)
	}
	return nil
}

// variable describes a bound value and, for sequences, their storage.
func (d *docWriter) variable(name string, v plist.Value) {
	s, err := plist.Repr(v)
	if err != nil {
		s = "<" + v.TypeName() + ">"
	}
	if d.width > 3 && len(s) > d.width {
		s = s[:d.width-3] + "..."
	}
	d.printf("%s = %s\n", name, s)
	var store *plist.Storage
	switch x := v.(type) {
	case *plist.List:
		store = x.Storage()
	case *plist.Tuple:
		store = x.Storage()
	default:
		d.printf("  type: %s\n", v.TypeName())
		return
	}
	d.printf("  type: %s\n", v.TypeName())
	d.printf("  storage: %s, length %d, capacity %d\n", store.Kind(), store.Len(), store.Cap())
}

var docCmd = DocCommand()

func init() {
	rootCmd.AddCommand(docCmd)
}
