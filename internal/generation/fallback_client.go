package generation

import (
	"context"
	"errors"

	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// FallbackClient sends each request to a primary provider and, only when
// that provider errors, once to a secondary provider. The same provider is
// never asked twice. When both fail the returned error joins the primary
// failure ahead of the secondary one.
type FallbackClient struct {
	primary   LLMClient
	secondary LLMClient
	logger    *logging.Logger
}

// NewFallbackClient chains primary and secondary. secondary may be nil.
func NewFallbackClient(primary, secondary LLMClient, logger *logging.Logger) *FallbackClient {
	if primary == nil {
		panic("generation: primary client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackClient{primary: primary, secondary: secondary, logger: logger}
}

func (c *FallbackClient) Complete(ctx context.Context, req Request) (Response, error) {
	resp, err := c.primary.Complete(ctx, req)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary LLM failed",
		"error", err.Error(),
		"secondary_available", c.secondary != nil,
	)
	if c.secondary == nil {
		return Response{}, err
	}

	secondaryResp, secondaryErr := c.secondary.Complete(ctx, req)
	if secondaryErr != nil {
		c.logger.Error("secondary LLM also failed",
			"primary_error", err.Error(),
			"secondary_error", secondaryErr.Error(),
		)
		return Response{}, errors.Join(err, secondaryErr)
	}

	c.logger.Info("secondary LLM succeeded after primary failure")
	return secondaryResp, nil
}
