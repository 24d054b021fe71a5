// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/plist/diagnostic"
	"github.com/luthersystems/plist/interp"
	"github.com/luthersystems/plist/lint"
	"github.com/luthersystems/plist/parser/token"
	"github.com/spf13/viper"
)

func colorMode() diagnostic.ColorMode {
	mode, ok := diagnostic.ParseColorMode(viper.GetString("color"))
	if !ok {
		return diagnostic.ColorAuto
	}
	return mode
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderError renders an evaluation error with diagnostic formatting to
// stderr.
func renderError(err error) {
	renderErrorTo(os.Stderr, err)
}

func renderErrorTo(w io.Writer, err error) {
	ev := interp.GoError(err)
	var locErr *token.LocationError
	switch {
	case ev != nil:
	case errors.As(err, &locErr):
		ev = &interp.ErrorVal{Err: locErr.Err, Source: locErr.Source, Text: locErr.Text}
	default:
		ev = &interp.ErrorVal{Err: err}
	}
	_ = newRenderer().Render(w, ev.Diagnostic())
}

// lintDiagToDiagnostic converts a lint.Diagnostic to a diagnostic.Diagnostic.
// lines holds the text of the linted source and is used for the snippet.
func lintDiagToDiagnostic(ld lint.Diagnostic, lines []string) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Message:  ld.Message + " (" + ld.Analyzer + ")",
	}
	switch ld.Severity {
	case lint.SeverityError:
		d.Severity = diagnostic.SeverityError
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		span := diagnostic.Span{
			File: ld.Pos.File,
			Line: ld.Pos.Line,
			Col:  ld.Pos.Col,
		}
		if ld.Pos.Line <= len(lines) {
			span.Source = lines[ld.Pos.Line-1]
		}
		d.Spans = append(d.Spans, span)
	}
	d.Notes = append(d.Notes, ld.Notes...)
	d.Notes = append(d.Notes, "to suppress: add \"# nolint:"+ld.Analyzer+"\" as a comment on this line")
	return d
}

// renderLintDiagnostics renders the diagnostics found in one source.
func renderLintDiagnostics(w io.Writer, diags []lint.Diagnostic, source []byte) error {
	lines := strings.Split(strings.ReplaceAll(string(source), "\r\n", "\n"), "\n")
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld, lines))
	}
	return newRenderer().RenderAll(w, ds)
}
