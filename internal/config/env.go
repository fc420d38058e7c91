package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields
func expandConfigEnvVars(cfg *Config) {
	cfg.Qdrant.URL = expandEnvVars(cfg.Qdrant.URL)
	cfg.Qdrant.APIKey = expandEnvVars(cfg.Qdrant.APIKey)
	cfg.Embedding.Primary.APIKey = expandEnvVars(cfg.Embedding.Primary.APIKey)
	cfg.Embedding.Primary.BaseURL = expandEnvVars(cfg.Embedding.Primary.BaseURL)
	cfg.Embedding.Fallback.APIKey = expandEnvVars(cfg.Embedding.Fallback.APIKey)
	cfg.Embedding.Fallback.BaseURL = expandEnvVars(cfg.Embedding.Fallback.BaseURL)
	cfg.LLM.APIKey = expandEnvVars(cfg.LLM.APIKey)
	cfg.LLM.BaseURL = expandEnvVars(cfg.LLM.BaseURL)
}

// applyEnvOverrides lets the environment override retrieval and model settings
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("MIN_SIMILARITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("MIN_SIMILARITY must be a number: %w", err)
		}
		cfg.Search.MinSimilarity = f
	}
	if v := os.Getenv("TOP_K_RESULTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TOP_K_RESULTS must be an integer: %w", err)
		}
		cfg.Search.TopK = n
	}
	if v := os.Getenv("FINAL_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("FINAL_TOP_N must be an integer: %w", err)
		}
		cfg.Search.FinalTopN = n
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Embedding.Primary.Model = v
	}
	if v := os.Getenv("VECTOR_COLLECTION"); v != "" {
		cfg.Qdrant.Collection = v
	}
	return nil
}
