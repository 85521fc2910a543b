// Package utils provides utility functions.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands tilde and all environment variables from the given path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		return os.ExpandEnv(s)
	}
	return os.ExpandEnv(path)
}

// IsSymbolID reports whether s looks like a catalog id rather than free
// text: short, ASCII and free of spaces.
func IsSymbolID(s string) bool {
	if s == "" || len(s) > 32 || strings.ContainsAny(s, " \t"+string(filepath.Separator)) {
		return false
	}
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
