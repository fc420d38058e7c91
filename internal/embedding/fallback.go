package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kavirubc/simili-rca/internal/logger"
)

// FallbackProvider sends each batch to the primary provider and retries it on
// the fallback when the primary fails. Both must produce vectors of the
// collection's dimensionality.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	log      *logger.Logger
}

// NewFallbackProvider wraps primary; fallback may be nil
func NewFallbackProvider(primary, fallback Provider, log *logger.Logger) *FallbackProvider {
	return &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		log:      log.With("component", "embedding"),
	}
}

// EmbedBatch implements Provider. Cancellation is returned as is.
func (p *FallbackProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := p.primary.EmbedBatch(ctx, texts)
	switch {
	case err == nil:
		return vectors, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case p.fallback == nil:
		return nil, fmt.Errorf("primary embedding failed: %w", err)
	}

	p.log.Warn("Primary embedding failed, using fallback", "texts", len(texts), "error", err)
	vectors, ferr := p.fallback.EmbedBatch(ctx, texts)
	if ferr != nil {
		return nil, fmt.Errorf("primary: %w; fallback: %w", err, ferr)
	}
	return vectors, nil
}

// Close closes both providers
func (p *FallbackProvider) Close() error {
	errs := []error{p.primary.Close()}
	if p.fallback != nil {
		errs = append(errs, p.fallback.Close())
	}
	return errors.Join(errs...)
}
