// Copyright © 2024 The ELPS authors

package repl

import (
	"io"
	"strings"

	"github.com/luthersystems/plist/diagnostic"
	"github.com/luthersystems/plist/interp"
)

// renderError renders err using the diagnostic renderer.  Name and
// attribute errors carry a note listing what is available.
func renderError(w io.Writer, r *diagnostic.Renderer, env *interp.Env, err error) {
	ev := interp.GoError(err)
	if ev == nil {
		ev = &interp.ErrorVal{Err: err}
	}
	d := ev.Diagnostic()
	switch ev.Condition() {
	case interp.CondNameError:
		if names := env.Names(); len(names) > 0 {
			d.Notes = append(d.Notes, "defined names: "+strings.Join(names, ", "))
		}
	case interp.CondAttributeError:
		d.Notes = append(d.Notes, "list methods: "+strings.Join(interp.MethodNames(), ", "))
	}
	_ = r.Render(w, d)
}
