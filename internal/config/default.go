package config

import "time"

// Config holds the polling defaults the CLI falls back to.
type Config struct {
	StatusPath string
	MaxTries   int
	BaseDelay  time.Duration
	Timeout    time.Duration
	EnvFile    string
}

const (
	StatusPath = "/status/extensionrunner"
	EnvFile    = ".env.production.local"
)

func baseConfig() Config {
	return Config{
		StatusPath: StatusPath,
		EnvFile:    EnvFile,
		BaseDelay:  time.Second,
		Timeout:    10 * time.Second,
	}
}

// DefaultPrebuildConfig is used by the prebuild hook: 40 attempts with a
// linear 1s backoff wait up to 13 minutes in total.
func DefaultPrebuildConfig() Config {
	config := baseConfig()
	config.MaxTries = 40
	return config
}

// DefaultProbeConfig is used by one-shot checks.
func DefaultProbeConfig() Config {
	config := baseConfig()
	config.MaxTries = 1
	return config
}
