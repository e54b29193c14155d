package config

import "time"

const (
	DefaultAPIURL         = "https://api.github.com/repos/ai-prompts/prompt-lists/contents/lists/"
	DefaultRepoURL        = "https://github.com/ai-prompts/prompt-lists.git"
	DefaultListsDir       = "lists"
	DefaultUserAgent      = "listbuilder/1.0"
	DefaultSuffix         = ".yml"
	DefaultCacheDir       = ".cache"
	DefaultCloneName      = "prompt-lists"
	DefaultHTTPDir        = "http"
	DefaultHTTPTTL        = time.Hour
	DefaultOutputDir      = "build"
	DefaultJSDir          = "js"
	DefaultCategoryBundle = "categoriesWithThings.js"
	DefaultIndexBundle    = "thingIndex.js"
)

// DefaultBlacklist lists file names that are never treated as lists.
func DefaultBlacklist() []string { return []string{"all.yml"} }

func applyDefaults(cfg *Config) {
	if cfg.Source.APIURL == "" {
		cfg.Source.APIURL = DefaultAPIURL
	}
	if cfg.Source.RepoURL == "" {
		cfg.Source.RepoURL = DefaultRepoURL
	}
	if cfg.Source.ListsDir == "" {
		cfg.Source.ListsDir = DefaultListsDir
	}
	if cfg.Source.UserAgent == "" {
		cfg.Source.UserAgent = DefaultUserAgent
	}
	if cfg.Source.Auth != nil {
		cfg.Source.Auth.Type = NormalizeAuthType(string(cfg.Source.Auth.Type))
	}

	if cfg.Lists.Suffix == "" {
		cfg.Lists.Suffix = DefaultSuffix
	}
	// nil means "not configured"; an explicit empty list disables the blacklist.
	if cfg.Lists.Blacklist == nil {
		cfg.Lists.Blacklist = DefaultBlacklist()
	}

	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir
	}
	if cfg.Cache.CloneName == "" {
		cfg.Cache.CloneName = DefaultCloneName
	}
	if cfg.Cache.HTTPDir == "" {
		cfg.Cache.HTTPDir = DefaultHTTPDir
	}
	if cfg.Cache.HTTPTTL == "" {
		cfg.Cache.HTTPTTL = DefaultHTTPTTL.String()
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDir
	}
	if cfg.Output.JSDir == "" {
		cfg.Output.JSDir = DefaultJSDir
	}
	if cfg.Output.CategoryBundle == "" {
		cfg.Output.CategoryBundle = DefaultCategoryBundle
	}
	if cfg.Output.IndexBundle == "" {
		cfg.Output.IndexBundle = DefaultIndexBundle
	}
}
