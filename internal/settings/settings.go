package settings

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/MrSnakeDoc/extwait/internal/config"
	"github.com/MrSnakeDoc/extwait/internal/logger"
	"github.com/MrSnakeDoc/extwait/internal/utils"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyHost       = "host"
	KeyCommitRef  = "commit_ref"
	KeyBuildID    = "build_id"
	KeyDisable    = "disable"
	KeyMaxTries   = "max_tries"
	KeyBaseDelay  = "base_delay"
	KeyTimeout    = "timeout"
	KeyStatusPath = "status_path"
	KeyNoCache    = "no_cache"
	KeyEnvFile    = "env_file"
)

// DisableEnv is the kill switch honoured by the prebuild hook.
const DisableEnv = "NETLIFY_PLUGIN_COMMERCETOOLS_FRONTEND_WAIT_DISABLE"

var envBindings = map[string]string{
	KeyHost:       "NEXT_PUBLIC_FRONTASTIC_HOST",
	KeyCommitRef:  "COMMIT_REF",
	KeyBuildID:    "NEXT_PUBLIC_EXT_BUILD_ID",
	KeyDisable:    DisableEnv,
	KeyMaxTries:   "EXTWAIT_MAX_TRIES",
	KeyBaseDelay:  "EXTWAIT_BASE_DELAY",
	KeyTimeout:    "EXTWAIT_TIMEOUT",
	KeyStatusPath: "EXTWAIT_STATUS_PATH",
	KeyNoCache:    "EXTWAIT_NO_CACHE",
	KeyEnvFile:    "EXTWAIT_ENV_FILE",
}

var ErrMissingHost = errors.New("no backend host configured (set NEXT_PUBLIC_FRONTASTIC_HOST or --host)")

type Settings struct {
	Host       string        `mapstructure:"host" validate:"omitempty,url"`
	CommitRef  string        `mapstructure:"commit_ref"`
	BuildID    string        `mapstructure:"build_id"`
	Disable    bool          `mapstructure:"disable"`
	MaxTries   int           `mapstructure:"max_tries" validate:"gte=1"`
	BaseDelay  time.Duration `mapstructure:"base_delay" validate:"gte=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	StatusPath string        `mapstructure:"status_path" validate:"required,startswith=/"`
	NoCache    bool          `mapstructure:"no_cache"`
	EnvFile    string        `mapstructure:"env_file" validate:"required"`
}

// Loader layers settings: flags over environment over config file over
// built-in defaults.
type Loader struct {
	v *viper.Viper
}

func NewLoader(defaults config.Config) *Loader {
	v := viper.New()
	v.SetDefault(KeyMaxTries, defaults.MaxTries)
	v.SetDefault(KeyBaseDelay, defaults.BaseDelay)
	v.SetDefault(KeyTimeout, defaults.Timeout)
	v.SetDefault(KeyStatusPath, defaults.StatusPath)
	v.SetDefault(KeyEnvFile, defaults.EnvFile)
	v.SetDefault(KeyDisable, false)
	v.SetDefault(KeyNoCache, false)

	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	return &Loader{v: v}
}

// RegisterFlags declares the flags understood by BindFlags.
func RegisterFlags(fs *pflag.FlagSet, defaults config.Config) {
	fs.String(flagName(KeyHost), "", "Backend host, e.g. https://my-project.frontastic.io")
	fs.String(flagName(KeyCommitRef), "", "Commit reference the build id is derived from")
	fs.String(flagName(KeyBuildID), "", "Explicit build id, overrides the commit reference")
	fs.Bool(flagName(KeyDisable), false, "Skip waiting for the backend")
	fs.Int(flagName(KeyMaxTries), defaults.MaxTries, "Maximum number of status checks")
	fs.Duration(flagName(KeyBaseDelay), defaults.BaseDelay, "Backoff unit between checks")
	fs.Duration(flagName(KeyTimeout), defaults.Timeout, "Timeout of a single status check")
	fs.String(flagName(KeyStatusPath), defaults.StatusPath, "Status endpoint path on the backend host")
	fs.Bool(flagName(KeyNoCache), false, "Add a cache-busting query parameter to the status URL")
	fs.String(flagName(KeyEnvFile), defaults.EnvFile, "File the build id is written to")
}

// BindFlags binds every known flag present in fs.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for key := range envBindings {
		f := fs.Lookup(flagName(key))
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	}
	return nil
}

// ReadFile loads a YAML or JSON config file. Its values sit just above the
// built-in defaults.
func (l *Loader) ReadFile(path string) error {
	fileType, err := utils.FileTypeFromExt(path)
	if err != nil {
		return err
	}

	raw := map[string]any{}
	if err := utils.FileReader(path, fileType, &raw); err != nil {
		return err
	}

	var unknown []string
	for key, val := range raw {
		if _, ok := envBindings[key]; !ok {
			unknown = append(unknown, key)
			continue
		}
		l.v.SetDefault(key, val)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown keys in %s: %s", path, strings.Join(unknown, ", "))
	}

	logger.Debug("Loaded settings from %s", path)
	return nil
}

func (l *Loader) Load() (*Settings, error) {
	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.Host = strings.TrimSpace(s.Host)
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Endpoint returns the status URL to poll. now seeds the cache buster.
func (s *Settings) Endpoint(now time.Time) (string, error) {
	if s.Host == "" {
		return "", ErrMissingHost
	}
	return StatusURL(s.Host, s.StatusPath, s.NoCache, now)
}

func StatusURL(host, path string, noCache bool, now time.Time) (string, error) {
	u, err := utils.ParseServiceURL(host)
	if err != nil {
		return "", fmt.Errorf("invalid host: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	if noCache {
		q := u.Query()
		q.Set("nocache", strconv.FormatInt(now.UnixNano(), 10))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// EnvVars lists every environment variable the loader reads.
func EnvVars() []string {
	vars := make([]string, 0, len(envBindings))
	for _, env := range envBindings {
		vars = append(vars, env)
	}
	sort.Strings(vars)
	return vars
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
