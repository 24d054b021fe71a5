// Copyright © 2024 The ELPS authors

// Package interp evaluates statements of the list scripting language.
package interp

import (
	"github.com/luthersystems/plist/parser/token"
	"github.com/luthersystems/plist/plist"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Env is an evaluation environment holding variable bindings.  An Env is
// not safe for concurrent use.
type Env struct {
	Runtime *Runtime
	vars    map[string]plist.Value
	loc     *token.Location
}

// NewEnv returns a new environment using runtime.  When runtime is nil a
// StandardRuntime is used.
func NewEnv(runtime *Runtime) *Env {
	if runtime == nil {
		runtime = StandardRuntime()
	}
	return &Env{
		Runtime: runtime,
		vars:    make(map[string]plist.Value),
	}
}

// InitializeEnv applies configs to env in order and returns the first error
// encountered.
func InitializeEnv(env *Env, configs ...Config) error {
	for _, config := range configs {
		if err := config(env); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value bound to name.
func (env *Env) Get(name string) (plist.Value, error) {
	v, ok := env.vars[name]
	if !ok {
		return nil, nameError(name)
	}
	return v, nil
}

// Set binds name to v.
func (env *Env) Set(name string, v plist.Value) {
	env.vars[name] = v
}

// Delete removes the binding of name.
func (env *Env) Delete(name string) error {
	if _, ok := env.vars[name]; !ok {
		return nameError(name)
	}
	delete(env.vars, name)
	return nil
}

// Names returns the bound variable names in sorted order.
func (env *Env) Names() []string {
	names := maps.Keys(env.vars)
	slices.Sort(names)
	return names
}
