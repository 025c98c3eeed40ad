// Package config provides the configuration of SmartPass.
// A Config starts from NewConfig defaults and is overlaid, in order, by the
// YAML configuration file, the environment and command line flags.
package config
