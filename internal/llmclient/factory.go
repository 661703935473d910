// File: internal/llmclient/factory.go
// Description: Constructs the configured advisory client and wraps it with a
// request rate limit, so stage code never has to care which backend answers.

package llmclient

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/voltride/crew-cli/api/schemas"
	"github.com/voltride/crew-cli/internal/config"
)

// NewAdvisor is the factory for schemas.AdvisoryClient implementations.
func NewAdvisor(cfg config.AdvisoryConfig, logger *zap.Logger) (schemas.AdvisoryClient, error) {
	var (
		client schemas.AdvisoryClient
		err    error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err = NewGeminiClient(cfg, logger)
	case config.ProviderStatic:
		client = NewStaticAdvisor(logger)
	default:
		return nil, fmt.Errorf("unknown advisory provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create advisory client: %w", err)
	}

	if cfg.RequestsPerMinute > 0 {
		client = withRateLimit(client, cfg.RequestsPerMinute)
	}
	logger.Info("Advisory client ready",
		zap.String("provider", string(cfg.Provider)),
		zap.Int("requests_per_minute", cfg.RequestsPerMinute),
	)
	return client, nil
}

// limitedAdvisor throttles calls to the wrapped client.
type limitedAdvisor struct {
	inner   schemas.AdvisoryClient
	limiter *rate.Limiter
}

func withRateLimit(inner schemas.AdvisoryClient, perMinute int) *limitedAdvisor {
	return &limitedAdvisor{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

func (l *limitedAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("advisory rate limiter: %w", err)
	}
	return l.inner.Advise(ctx, prompt)
}
