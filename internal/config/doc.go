// Package config provides configuration structures and utilities for
// netsweep. It defines the immutable run configuration built once at
// startup from CLI flags and the optional .netsweep YAML file.
package config
