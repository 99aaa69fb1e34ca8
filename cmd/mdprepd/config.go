package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ServerConfig holds the daemon configuration
type ServerConfig struct {
	Addr        string
	ConfigFile  string
	ConfigName  string
	SnapshotDir string
	Watch       bool
	LogLevel    string
	LogFormat   string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*ServerConfig, string)
}

// loadServerConfig loads the daemon configuration from CLI flags and
// environment variables. Flags win over environment variables, which win
// over defaults. Uses a resolver pattern to make it easy to add new
// configuration options.
func loadServerConfig() ServerConfig {
	cfg := ServerConfig{}

	// Define all configuration resolvers
	// To add a new option, just add a new resolver here
	resolvers := []configResolver{
		{
			flagName:    "addr",
			envVarName:  "MDPREP_ADDR",
			defaultVal:  ":8080",
			description: "HTTP listen address (e.g. :8080, 0.0.0.0:8080)",
			setter:      func(c *ServerConfig, v string) { c.Addr = v },
		},
		{
			flagName:    "config-file",
			envVarName:  "MDPREP_CONFIG_FILE",
			defaultVal:  "",
			description: "optional path to a simulation config file (.yaml, .json or .toml) to load at startup",
			setter:      func(c *ServerConfig, v string) { c.ConfigFile = v },
		},
		{
			flagName:    "config-name",
			envVarName:  "MDPREP_CONFIG_NAME",
			defaultVal:  "default",
			description: "registry name for the configuration loaded from config-file",
			setter:      func(c *ServerConfig, v string) { c.ConfigName = v },
		},
		{
			flagName:    "snapshot-dir",
			envVarName:  "MDPREP_SNAPSHOT_DIR",
			defaultVal:  "./data",
			description: "Directory where resolved-configuration snapshots are stored; empty disables snapshots",
			setter:      func(c *ServerConfig, v string) { c.SnapshotDir = v },
		},
		{
			flagName:    "watch",
			envVarName:  "MDPREP_WATCH",
			defaultVal:  "false",
			description: "Watch config-file for changes and hot-reload it (true/false)",
			setter: func(c *ServerConfig, v string) {
				// Parse bool value, with error handling
				if val, err := strconv.ParseBool(v); err == nil {
					c.Watch = val
				} else {
					log.Printf("Invalid value for watch: %s, using default false", v)
					c.Watch = false
				}
			},
		},
		{
			flagName:    "log-level",
			envVarName:  "MDPREP_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *ServerConfig, v string) { c.LogLevel = v },
		},
		{
			flagName:    "log-format",
			envVarName:  "MDPREP_LOG_FORMAT",
			defaultVal:  "json",
			description: "Log format: json or console",
			setter:      func(c *ServerConfig, v string) { c.LogFormat = v },
		},
	}

	// Register string flags first
	flagVars := make(map[string]*string)
	for _, resolver := range resolvers {
		flagVars[resolver.flagName] = flag.String(resolver.flagName, "", resolver.description)
	}

	// Parse flags once
	flag.Parse()

	// Resolve values for each resolver
	for _, resolver := range resolvers {
		var value string
		if *flagVars[resolver.flagName] != "" {
			value = *flagVars[resolver.flagName]
		} else if envValue := os.Getenv(resolver.envVarName); envValue != "" {
			value = envValue
		} else {
			value = resolver.defaultVal
		}
		resolver.setter(&cfg, value)
	}

	return cfg
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
