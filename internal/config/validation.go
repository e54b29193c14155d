package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks invariants that defaults cannot repair.
func Validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.Lists.Suffix, ".") {
		return fmt.Errorf("lists.suffix must start with '.': %q", cfg.Lists.Suffix)
	}
	if d, err := time.ParseDuration(cfg.Cache.HTTPTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid cache.http_ttl %q: must be a positive duration", cfg.Cache.HTTPTTL)
	}
	if _, err := url.ParseRequestURI(cfg.Source.APIURL); err != nil {
		return fmt.Errorf("invalid source.api_url: %w", err)
	}
	if cfg.Source.Auth != nil && cfg.Source.Auth.Type == "" {
		return fmt.Errorf("unsupported source.auth.type (expected none|ssh|token|basic)")
	}
	if cfg.Output.CategoryBundle == cfg.Output.IndexBundle {
		return fmt.Errorf("output.category_bundle and output.index_bundle must differ")
	}
	return nil
}
