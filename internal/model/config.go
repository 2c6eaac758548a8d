package model

import "time"

// Config is the full runtime configuration.
// Hierarchy: CLI flags > CLAIMLENS_* env > ~/.claimlens/config.yaml > defaults.
type Config struct {
	Chunking    ChunkingConfig    `yaml:"chunking" mapstructure:"chunking"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" mapstructure:"retrieval"`
	Embedder    EmbedderConfig    `yaml:"embedder" mapstructure:"embedder"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// ChunkingConfig controls the character-window chunker.
type ChunkingConfig struct {
	WindowSize int `yaml:"window_size" mapstructure:"window_size"` // Max chars per chunk
	Overlap    int `yaml:"overlap" mapstructure:"overlap"`         // Chars shared between consecutive chunks
}

// ExtractConfig controls the claim miner.
type ExtractConfig struct {
	MaxClaims         int `yaml:"max_claims" mapstructure:"max_claims"`
	MinSentenceLen    int `yaml:"min_sentence_len" mapstructure:"min_sentence_len"`
	MaxSentenceLen    int `yaml:"max_sentence_len" mapstructure:"max_sentence_len"`
	MinQuotedLen      int `yaml:"min_quoted_len" mapstructure:"min_quoted_len"`
	MaxQuotedLen      int `yaml:"max_quoted_len" mapstructure:"max_quoted_len"`
	DedupePrefixChars int `yaml:"dedupe_prefix_chars" mapstructure:"dedupe_prefix_chars"`
}

// ScoringConfig carries the evidence-label thresholds.
// These trade recall for precision; they are tunable, not derived.
type ScoringConfig struct {
	SupportOverlap       float64 `yaml:"support_overlap" mapstructure:"support_overlap"`             // >= : supported outright
	WeakSupportOverlap   float64 `yaml:"weak_support_overlap" mapstructure:"weak_support_overlap"`   // >= : supported if dates align
	ContradictionOverlap float64 `yaml:"contradiction_overlap" mapstructure:"contradiction_overlap"` // >= : eligible for contradiction
	MinSharedContext     int     `yaml:"min_shared_context" mapstructure:"min_shared_context"`       // Shared tokens needed before flagging dates
}

// RetrievalConfig controls evidence retrieval.
type RetrievalConfig struct {
	TopK int `yaml:"top_k" mapstructure:"top_k"`
}

// EmbedderConfig selects and configures the embedding backend.
type EmbedderConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "ollama" or "openai"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutS  int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	BatchStep int    `yaml:"batch_step" mapstructure:"batch_step"` // Progress reporting granularity
}

// CacheConfig controls the embedding vector cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Empty: ~/.claimlens/cache
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// StoreConfig controls local persistence.
type StoreConfig struct {
	DataDir    string `yaml:"data_dir" mapstructure:"data_dir"` // Empty: ~/.claimlens/data
	QuotaBytes int64  `yaml:"quota_bytes" mapstructure:"quota_bytes"`
}

// LLMConfig configures the optional draft rewriter.
// The template fallback always runs when this path fails.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "", "openai", "ollama"
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutS  int    `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	Strict    bool   `yaml:"strict_citations" mapstructure:"strict_citations"`
}

// HTTPConfig configures URL ingestion.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RatePerHost  float64       `yaml:"rate_per_host" mapstructure:"rate_per_host"`
	Burst        int           `yaml:"burst" mapstructure:"burst"`
}

// ConcurrencyConfig controls batch mode.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			WindowSize: 1000,
			Overlap:    150,
		},
		Extract: ExtractConfig{
			MaxClaims:         50,
			MinSentenceLen:    40,
			MaxSentenceLen:    280,
			MinQuotedLen:      3,
			MaxQuotedLen:      120,
			DedupePrefixChars: 200,
		},
		Scoring: ScoringConfig{
			SupportOverlap:       0.6,
			WeakSupportOverlap:   0.4,
			ContradictionOverlap: 0.25,
			MinSharedContext:     2,
		},
		Retrieval: RetrievalConfig{
			TopK: 5,
		},
		Embedder: EmbedderConfig{
			Provider:  "ollama",
			Model:     "nomic-embed-text",
			TimeoutS:  30,
			BatchStep: 5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Store: StoreConfig{
			QuotaBytes: 512 * 1024 * 1024,
		},
		LLM: LLMConfig{
			Provider:  "",
			TimeoutS:  60,
			MaxTokens: 800,
			Strict:    true,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Claimlens/0.1 (+https://github.com/pkoval/claimlens)",
			MaxBodyBytes: 2_000_000,
			RatePerHost:  2,
			Burst:        4,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
