package config

import (
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	// Validate Qdrant config
	if cfg.Qdrant.URL == "" {
		errs = append(errs, ValidationError{"qdrant.url", "required"})
	}

	// Validate embedding config
	errs = append(errs, validateProvider("embedding.primary", &cfg.Embedding.Primary, true)...)
	if cfg.Embedding.Fallback.Provider != "" {
		errs = append(errs, validateProvider("embedding.fallback", &cfg.Embedding.Fallback, false)...)
	}
	if cfg.Embedding.Dimensions <= 0 {
		errs = append(errs, ValidationError{"embedding.dimensions", "must be positive"})
	}

	// Validate chunking
	if cfg.Chunking.MaxChunkLength < 100 {
		errs = append(errs, ValidationError{"chunking.max_chunk_length", "must be at least 100"})
	}
	weights := map[string]float64{
		"summary":        cfg.Chunking.Weights.Summary,
		"description":    cfg.Chunking.Weights.Description,
		"root_cause":     cfg.Chunking.Weights.RootCause,
		"solution":       cfg.Chunking.Weights.Solution,
		"comments":       cfg.Chunking.Weights.Comments,
		"return_reasons": cfg.Chunking.Weights.ReturnReasons,
		"status_history": cfg.Chunking.Weights.StatusHistory,
		"metadata":       cfg.Chunking.Weights.Metadata,
	}
	for name, w := range weights {
		if w <= 0 {
			errs = append(errs, ValidationError{"chunking.weights." + name, "must be positive"})
		}
	}

	// Validate search
	if !(cfg.Search.MinSimilarity >= 0 && cfg.Search.MinSimilarity <= 1) {
		errs = append(errs, ValidationError{"search.min_similarity", "must be between 0 and 1"})
	}
	if cfg.Search.FinalTopN <= 0 {
		errs = append(errs, ValidationError{"search.final_top_n", "must be positive"})
	}
	if cfg.Search.TopK < cfg.Search.FinalTopN {
		errs = append(errs, ValidationError{"search.top_k", "must be at least final_top_n"})
	}

	// Validate indexing
	if cfg.Indexing.BatchSize <= 0 {
		errs = append(errs, ValidationError{"indexing.batch_size", "must be positive"})
	}
	if cfg.Indexing.Workers <= 0 {
		errs = append(errs, ValidationError{"indexing.workers", "must be positive"})
	}

	if cfg.LLM.Provider != "" && cfg.LLM.Provider != "gemini" && cfg.LLM.Provider != "openai" {
		errs = append(errs, ValidationError{"llm.provider", "must be 'gemini' or 'openai'"})
	}

	return errs
}

func validateProvider(prefix string, p *ProviderConfig, required bool) []error {
	var errs []error
	if p.Provider == "" {
		if required {
			errs = append(errs, ValidationError{prefix + ".provider", "required"})
		}
		return errs
	}
	if p.Provider != "gemini" && p.Provider != "openai" {
		errs = append(errs, ValidationError{prefix + ".provider", "must be 'gemini' or 'openai'"})
	}
	// A compatible server reached through base_url may not need a key
	if p.APIKey == "" && p.BaseURL == "" {
		errs = append(errs, ValidationError{prefix + ".api_key", "required"})
	}
	return errs
}
