// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared configuration structures for the taxonomy engine.
package types

import "time"

// DefaultWordWrap is the template wrapped around every compiled label pattern.
// The %s verb receives the label pattern. The surrounding classes keep a match
// from being a substring of a larger word or hyphenated compound.
const DefaultWordWrap = `(?:^|[^\w-])%s(?:[^\w-]|$)`

// DefaultCacheSubdir is the directory created under the cache root.
const DefaultCacheSubdir = "taxonomy-engine"

// CompilerConfig holds settings for pattern compilation.
type CompilerConfig struct {
	// WordWrap is a fmt template with a single %s verb. Empty means DefaultWordWrap.
	WordWrap string `json:"word_wrap" yaml:"word_wrap"`

	// RulesFile is an optional YAML file overriding the built-in grammar rules.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
}

// CacheConfig holds settings for the compiled taxonomy cache.
type CacheConfig struct {
	// Dir is the preferred shared cache root. When empty or not writable the
	// OS temp directory is used instead.
	Dir string `json:"dir" yaml:"dir"`

	// Subdir is created under the cache root (default "taxonomy-engine").
	Subdir string `json:"subdir" yaml:"subdir"`
}

// FetchConfig holds HTTP settings for downloading remote taxonomies.
type FetchConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on 429 and 5xx responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EngineConfig groups all configuration sections.
type EngineConfig struct {
	Compiler CompilerConfig `json:"compiler" yaml:"compiler"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
}
