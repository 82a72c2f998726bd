// Package config holds the wikigraph configuration: defaults, the YAML
// configuration file (.wikigraph) and validation.
//
// Precedence, lowest first: built-in defaults, the configuration file,
// command-line flags.
package config
