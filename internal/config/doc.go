// Package config holds the settings of an nsmarchive run: defaults, the
// optional YAML config file and validation.
package config
