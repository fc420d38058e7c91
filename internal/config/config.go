package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	Qdrant    QdrantConfig    `yaml:"qdrant"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Search    SearchConfig    `yaml:"search"`
	Indexing  IndexingConfig  `yaml:"indexing"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// QdrantConfig contains Qdrant connection settings
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// EmbeddingConfig contains embedding provider settings
type EmbeddingConfig struct {
	Primary       ProviderConfig `yaml:"primary"`
	Fallback      ProviderConfig `yaml:"fallback"`
	QueryPrefix   string         `yaml:"query_prefix"`
	PassagePrefix string         `yaml:"passage_prefix"`
	Dimensions    int            `yaml:"dimensions"`
}

// ProviderConfig contains settings for an embedding provider
type ProviderConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	// BaseURL points the openai provider at a compatible server (e.g. a local e5 model)
	BaseURL string `yaml:"base_url"`
}

// ChunkingConfig contains chunking settings
type ChunkingConfig struct {
	MaxChunkLength int           `yaml:"max_chunk_length"`
	Weights        WeightsConfig `yaml:"weights"`
}

// WeightsConfig holds the per-type chunk weights; zero means default
type WeightsConfig struct {
	Summary       float64 `yaml:"summary"`
	Description   float64 `yaml:"description"`
	RootCause     float64 `yaml:"root_cause"`
	Solution      float64 `yaml:"solution"`
	Comments      float64 `yaml:"comments"`
	ReturnReasons float64 `yaml:"return_reasons"`
	StatusHistory float64 `yaml:"status_history"`
	Metadata      float64 `yaml:"metadata"`
}

// SearchConfig contains retrieval settings
type SearchConfig struct {
	TopK          int      `yaml:"top_k"`
	MinSimilarity float64  `yaml:"min_similarity"`
	FinalTopN     int      `yaml:"final_top_n"`
	Statuses      []string `yaml:"statuses"`
	ExcludeTypes  []string `yaml:"exclude_types"`
}

// IndexingConfig contains batch ingestion settings
type IndexingConfig struct {
	BatchSize  int    `yaml:"batch_size"`
	Workers    int    `yaml:"workers"`
	LedgerPath string `yaml:"ledger_path"`
}

// LLMConfig contains analysis model settings
type LLMConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// LoggingConfig selects the logger mode
type LoggingConfig struct {
	Mode string `yaml:"mode"`
}

// DefaultMinSimilarity is the threshold used when none is configured
const DefaultMinSimilarity = 0.70

// Load reads and parses config from the given path.
// A .env file in the working directory is loaded first when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	// Set before parsing so an explicit 0 from the file or environment survives
	cfg := Config{Search: SearchConfig{MinSimilarity: DefaultMinSimilarity}}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	expandConfigEnvVars(&cfg)
	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	return &cfg, nil
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	// Check common locations
	paths := []string{
		".github/simili-rca.yaml",
		".github/simili-rca.yml",
		"simili-rca.yaml",
		"simili-rca.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "simili-rca", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Qdrant.Collection == "" {
		cfg.Qdrant.Collection = "sprint_issues"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 1024
	}
	if cfg.Embedding.QueryPrefix == "" {
		cfg.Embedding.QueryPrefix = "query: "
	}
	if cfg.Embedding.PassagePrefix == "" {
		cfg.Embedding.PassagePrefix = "passage: "
	}

	if cfg.Chunking.MaxChunkLength == 0 {
		cfg.Chunking.MaxChunkLength = 1500
	}
	w := &cfg.Chunking.Weights
	setDefault(&w.Summary, 3.5)
	setDefault(&w.Description, 2.5)
	setDefault(&w.RootCause, 3.0)
	setDefault(&w.Solution, 3.0)
	setDefault(&w.Comments, 2.0)
	setDefault(&w.ReturnReasons, 2.5)
	setDefault(&w.StatusHistory, 1.5)
	setDefault(&w.Metadata, 1.0)

	if cfg.Search.TopK == 0 {
		cfg.Search.TopK = 20
	}
	if cfg.Search.FinalTopN == 0 {
		cfg.Search.FinalTopN = 5
	}
	if cfg.Search.Statuses == nil {
		cfg.Search.Statuses = []string{"CLOSED", "Closed", "Done", "Resolved"}
	}
	if cfg.Search.ExcludeTypes == nil {
		cfg.Search.ExcludeTypes = []string{"AnalysisTask"}
	}

	if cfg.Indexing.BatchSize == 0 {
		cfg.Indexing.BatchSize = 64
	}
	if cfg.Indexing.Workers == 0 {
		cfg.Indexing.Workers = 4
	}
	if cfg.Indexing.LedgerPath == "" {
		cfg.Indexing.LedgerPath = "./data/ledger.db"
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = cfg.Embedding.Primary.Provider
	}
	if cfg.LLM.APIKey == "" && cfg.LLM.Provider == cfg.Embedding.Primary.Provider {
		cfg.LLM.APIKey = cfg.Embedding.Primary.APIKey
	}

	if cfg.Logging.Mode == "" {
		cfg.Logging.Mode = "dev"
	}
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}
