package util

import (
	"os"
	"regexp"
)

var winVarRegex = regexp.MustCompile(`%([A-Za-z0-9_]+)%`)

// ExpandEnvUniversal expands environment variables in both Unix style
// ($VAR, ${VAR}) and Windows style (%VAR%). Unknown variables expand to the
// empty string, matching os.ExpandEnv. Configured file paths pass through
// here so datasets can live under release-specific directories.
func ExpandEnvUniversal(s string) string {
	expanded := os.ExpandEnv(s)
	return winVarRegex.ReplaceAllStringFunc(expanded, func(match string) string {
		if value, ok := os.LookupEnv(match[1 : len(match)-1]); ok {
			return value
		}
		return ""
	})
}
