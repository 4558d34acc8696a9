// Package config provides configuration structures and utilities for the
// crawler. It defines the runtime options populated from CLI flags, the
// selector profile that maps record fields to CSS selectors, and the
// optional YAML configuration file that overrides both.
package config
