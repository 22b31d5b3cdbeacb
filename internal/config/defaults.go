// Package config holds the defaults and config file discovery shared by the
// leapfilter CLI and library callers.
package config

// Default configuration values.
const (
	DefaultOutput  = "auto" // TTY=text, otherwise markdown
	DefaultCatalog = ""     // no schema validation
	EnvPrefix      = "LEAPFILTER_"
)

// Defaults returns the default configuration as a flat key map.
func Defaults() map[string]any {
	return map[string]any{
		"output":   DefaultOutput,
		"verbose":  false,
		"no_color": false,
		"catalog":  DefaultCatalog,
	}
}
