// Copyright © 2024 The ELPS authors

package repl

import (
	"strings"
	"unicode"

	"github.com/luthersystems/plist/interp"
	"golang.org/x/exp/slices"
)

var keywords = []string{"None", "True", "False", "del", "in", "not"}

// nameCompleter implements readline.AutoCompleter.  A word following '.'
// completes to a list method.  Any other word completes to a variable,
// builtin or keyword.
type nameCompleter struct {
	env *interp.Env
}

func (c *nameCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && isNameRune(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	var names []string
	if start > 0 && line[start-1] == '.' {
		names = interp.MethodNames()
	} else {
		if prefix == "" {
			return nil, 0
		}
		names = c.globals()
	}
	var result [][]rune
	for _, name := range names {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			result = append(result, []rune(name[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len(prefix)
}

func (c *nameCompleter) globals() []string {
	names := append(c.env.Names(), interp.BuiltinNames()...)
	names = append(names, keywords...)
	slices.Sort(names)
	return slices.Compact(names)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
