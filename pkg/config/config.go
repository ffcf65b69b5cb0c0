// Package config loads the scanner configuration.
//
// Values come from built-in defaults, then the project file
// (.feluda.toml, .feluda.yaml or .feluda.yml in the project root), then
// FELUDA_ environment variables. List values in the environment are JSON
// arrays:
//
//	FELUDA_LICENSES_RESTRICTIVE='["GPL-3.0","AGPL-3.0"]'
//	FELUDA_DEPENDENCIES_IGNORE='[{"name":"left-pad","reason":"vendored"}]'
//
// Command-line flags are applied on top by the caller.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/feluda/pkg/errors"
	"github.com/matzehuels/feluda/pkg/licenses"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "FELUDA"

// FileNames are the project configuration files, in lookup order.
var FileNames = []string{".feluda.toml", ".feluda.yaml", ".feluda.yml"}

// Config holds all scanner configuration.
type Config struct {
	Licenses      LicensesConfig      `mapstructure:"licenses" json:"licenses"`
	Dependencies  DependenciesConfig  `mapstructure:"dependencies" json:"dependencies"`
	Strict        bool                `mapstructure:"strict" json:"strict"`
	Scan          ScanConfig          `mapstructure:"scan" json:"scan"`
	Cache         CacheConfig         `mapstructure:"cache" json:"cache"`
	Compatibility []CompatibilityRule `mapstructure:"compatibility" json:"compatibility,omitempty"`

	// File is the configuration file that was read, or "" for none.
	File string `mapstructure:"-" json:"-"`
}

// LicensesConfig lists license identifiers with special handling.
type LicensesConfig struct {
	Restrictive []string `mapstructure:"restrictive" json:"restrictive"`
	Ignore      []string `mapstructure:"ignore" json:"ignore"`
}

// DependenciesConfig controls which dependencies are reported.
type DependenciesConfig struct {
	Ignore   []IgnoreRule `mapstructure:"ignore" json:"ignore"`
	MaxDepth int          `mapstructure:"max_depth" json:"max_depth"`
}

// IgnoreRule drops a dependency from the report. An empty Version
// matches every version.
type IgnoreRule struct {
	Name    string `mapstructure:"name" json:"name"`
	Version string `mapstructure:"version" json:"version,omitempty"`
	Reason  string `mapstructure:"reason" json:"reason,omitempty"`
}

// Matches reports whether the rule covers name at version.
func (r IgnoreRule) Matches(name, version string) bool {
	return r.Name == name && (r.Version == "" || r.Version == version)
}

// ScanConfig tunes discovery and lookups.
type ScanConfig struct {
	Exclude []string      `mapstructure:"exclude" json:"exclude"`
	Workers int           `mapstructure:"workers" json:"workers"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// CacheConfig configures the HTTP response cache.
type CacheConfig struct {
	TTL      time.Duration `mapstructure:"ttl" json:"ttl"`
	RedisURL string        `mapstructure:"redis_url" json:"redis_url,omitempty"`
}

// CompatibilityRule replaces the accepted dependency licenses of one
// project license. Rules are a list rather than a table so that license
// identifiers keep their case.
type CompatibilityRule struct {
	License string   `mapstructure:"license" json:"license"`
	Accepts []string `mapstructure:"accepts" json:"accepts"`
}

// DefaultRestrictive is the restrictive license list used when none is
// configured.
var DefaultRestrictive = []string{
	"GPL-3.0",
	"AGPL-3.0",
	"LGPL-3.0",
	"MPL-2.0",
	"CC-BY-SA-4.0",
	"EPL-2.0",
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Licenses: LicensesConfig{
			Restrictive: append([]string(nil), DefaultRestrictive...),
		},
		Dependencies: DependenciesConfig{MaxDepth: 3},
		Scan: ScanConfig{
			Workers: 8,
			Timeout: 30 * time.Second,
		},
		Cache: CacheConfig{TTL: 24 * time.Hour},
	}
}

// listKeys are decoded from JSON when set through the environment.
var listKeys = []string{
	"licenses.restrictive",
	"licenses.ignore",
	"dependencies.ignore",
	"scan.exclude",
	"compatibility",
}

// Load reads the configuration for the project rooted at dir. A missing
// file is not an error; a malformed one is.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	var file string
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			file = path
			break
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfig, err, "read %s", file)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := applyListEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfig, err, "decode configuration")
	}
	cfg.File = file
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("licenses.restrictive", d.Licenses.Restrictive)
	v.SetDefault("licenses.ignore", d.Licenses.Ignore)
	v.SetDefault("dependencies.max_depth", d.Dependencies.MaxDepth)
	v.SetDefault("strict", d.Strict)
	v.SetDefault("scan.exclude", d.Scan.Exclude)
	v.SetDefault("scan.workers", d.Scan.Workers)
	v.SetDefault("scan.timeout", d.Scan.Timeout)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis_url", d.Cache.RedisURL)
}

func applyListEnv(v *viper.Viper) error {
	for _, key := range listKeys {
		name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		raw, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return errors.Wrap(errors.ErrCodeConfig, err, "%s must be a JSON array", name)
		}
		if _, ok := value.([]any); !ok {
			return errors.New(errors.ErrCodeConfig, "%s must be a JSON array", name)
		}
		v.Set(key, value)
	}
	return nil
}

// Matrix returns the default compatibility matrix with the configured
// rules applied.
func (c *Config) Matrix() licenses.Matrix {
	overrides := make(map[string][]string, len(c.Compatibility))
	for _, r := range c.Compatibility {
		if r.License != "" {
			overrides[r.License] = r.Accepts
		}
	}
	return licenses.DefaultMatrix().WithOverrides(overrides)
}

// IgnoresLicense reports whether license is on the ignore list.
func (c *Config) IgnoresLicense(license string) bool {
	return containsLicense(c.Licenses.Ignore, license)
}

// IgnoresDependency returns the rule dropping name at version, if any.
func (c *Config) IgnoresDependency(name, version string) (IgnoreRule, bool) {
	for _, r := range c.Dependencies.Ignore {
		if r.Matches(name, version) {
			return r, true
		}
	}
	return IgnoreRule{}, false
}

func containsLicense(list []string, license string) bool {
	if license == "" {
		return false
	}
	norm := licenses.Normalize(license)
	for _, l := range list {
		if strings.EqualFold(l, license) || (norm != "" && licenses.Normalize(l) == norm) {
			return true
		}
	}
	return false
}
