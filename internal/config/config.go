package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"typemeta/internal/typenode"
)

// Environment variables overriding the file.
const (
	EnvManifests         = "TYPEMETA_MANIFESTS"
	EnvPackages          = "TYPEMETA_PACKAGES"
	EnvDir               = "TYPEMETA_DIR"
	EnvRoots             = "TYPEMETA_ROOTS"
	EnvExcludedPrefixes  = "TYPEMETA_EXCLUDED_PREFIXES"
	EnvResolverCacheSize = "TYPEMETA_RESOLVER_CACHE_SIZE"
	EnvStrict            = "TYPEMETA_STRICT"
)

// Config describes where type metadata comes from and how it is queried.
type Config struct {
	// Manifests are YAML manifest files to load.
	Manifests []string `yaml:"manifests"`
	// Packages are Go package patterns to analyze.
	Packages []string `yaml:"packages"`
	// Dir is the directory package patterns are resolved from.
	Dir string `yaml:"dir"`
	// Roots are the modules reachability queries start from.
	Roots []string `yaml:"roots"`
	// ExcludedPrefixes replace the default list of module name prefixes
	// reachability does not follow.
	ExcludedPrefixes []string `yaml:"excluded_prefixes"`
	// ResolverCacheSize is the number of resolved type nodes kept.
	ResolverCacheSize int `yaml:"resolver_cache_size"`
	// Strict aborts manifest loading on the first broken module.
	Strict bool `yaml:"strict"`
}

// Default returns the configuration used without a file.
func Default() *Config {
	return &Config{ResolverCacheSize: typenode.DefaultCacheSize}
}

// Load reads the YAML file at path, if any, and applies environment
// overrides. Variables from envFiles, or from .env when none are given,
// are loaded first without replacing variables already set.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.ResolverCacheSize < 0 {
		return nil, fmt.Errorf("resolver_cache_size must not be negative, got %d", cfg.ResolverCacheSize)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := list(os.Getenv(EnvManifests)); v != nil {
		c.Manifests = v
	}

	if v := list(os.Getenv(EnvPackages)); v != nil {
		c.Packages = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvDir)); v != "" {
		c.Dir = v
	}

	if v := list(os.Getenv(EnvRoots)); v != nil {
		c.Roots = v
	}

	if v := list(os.Getenv(EnvExcludedPrefixes)); v != nil {
		c.ExcludedPrefixes = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvResolverCacheSize)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvResolverCacheSize, err)
		}

		c.ResolverCacheSize = n
	}

	if v := strings.TrimSpace(os.Getenv(EnvStrict)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}

		c.Strict = b
	}

	return nil
}

// list splits a comma separated value, dropping empty items. It returns nil
// for a blank value.
func list(v string) []string {
	var out []string

	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
