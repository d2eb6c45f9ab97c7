// Package config handles loading and validation of backtest configuration.
//
// Configuration is loaded from YAML files with environment variable
// substitution (${VAR} syntax). Missing optional fields receive defaults;
// invalid values are fatal at startup, before any simulation minute runs.
package config
