// Copyright © 2024 The ELPS authors

package cmd

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// scriptExt is the file extension of list scripts.
const scriptExt = ".pl"

// expandArgs expands arguments, resolving patterns ending with "/..." to all
// scripts found recursively under the given directory.  Paths whose base
// name or any directory component matches an exclude glob are dropped.
func expandArgs(args []string, excludes []string) ([]string, error) {
	for _, pat := range excludes {
		if _, err := filepath.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("bad exclude pattern %q: %w", pat, err)
		}
	}
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			if !excluded(arg, excludes) {
				out = append(out, arg)
			}
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := findScripts(dir, excludes)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", arg, err)
		}
		out = append(out, files...)
	}
	return out, nil
}

func findScripts(root string, excludes []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && matchesAny(d.Name(), excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && filepath.Ext(path) == scriptExt {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func excluded(path string, excludes []string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if matchesAny(part, excludes) {
			return true
		}
	}
	return false
}

func matchesAny(name string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, name); ok {
			return true
		}
	}
	return false
}
