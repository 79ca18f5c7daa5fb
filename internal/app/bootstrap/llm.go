package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	appconfig "github.com/shivraj110504/RuralCare/internal/config"
	"github.com/shivraj110504/RuralCare/internal/generation"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

const (
	providerAuto    = "auto"
	providerGemini  = "gemini"
	providerBedrock = "bedrock"
	providerNone    = "none"
)

// BuildLLMClient picks the generation backend from LLM_PROVIDER.
//
//	gemini   Gemini only; requires GEMINI_API_KEY
//	bedrock  Bedrock only; requires BEDROCK_MODEL_ID
//	auto     Gemini first, Bedrock as fallback, whichever are configured
//	none     no client; every unmatched message gets the auth fallback text
//
// A nil client is a valid result. The generator treats it as a credentials
// failure and answers with the fallback text.
func BuildLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (generation.LLMClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if provider == "" {
		provider = providerAuto
	}

	switch provider {
	case providerNone:
		logger.Warn("generation disabled; unmatched messages get fallback text")
		return nil, nil
	case providerGemini:
		return buildGemini(ctx, cfg)
	case providerBedrock:
		return buildBedrock(ctx, cfg)
	case providerAuto:
	default:
		return nil, fmt.Errorf("bootstrap: unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	var primary, secondary generation.LLMClient
	if strings.TrimSpace(cfg.GeminiAPIKey) != "" {
		gemini, err := buildGemini(ctx, cfg)
		if err != nil {
			return nil, err
		}
		primary = gemini
	}
	if strings.TrimSpace(cfg.BedrockModelID) != "" {
		bedrock, err := buildBedrock(ctx, cfg)
		if err != nil {
			logger.Warn("bedrock fallback unavailable", "error", err)
		} else {
			secondary = bedrock
		}
	}

	switch {
	case primary != nil && secondary != nil:
		logger.Info("generation configured", "primary", providerGemini, "fallback", providerBedrock)
		return generation.NewFallbackClient(primary, secondary, logger), nil
	case primary != nil:
		logger.Info("generation configured", "primary", providerGemini)
		return primary, nil
	case secondary != nil:
		logger.Info("generation configured", "primary", providerBedrock)
		return secondary, nil
	default:
		logger.Warn("no generation credentials configured; unmatched messages get fallback text")
		return nil, nil
	}
}

func buildGemini(ctx context.Context, cfg *appconfig.Config) (generation.LLMClient, error) {
	client, err := generation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID, cfg.GenerationTimeout)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return client, nil
}

func buildBedrock(ctx context.Context, cfg *appconfig.Config) (generation.LLMClient, error) {
	if strings.TrimSpace(cfg.BedrockModelID) == "" {
		return nil, fmt.Errorf("bootstrap: BEDROCK_MODEL_ID is required for bedrock")
	}
	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		if endpoint := strings.TrimSpace(cfg.AWSEndpointOverride); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return generation.NewBedrockClient(client, cfg.BedrockModelID, cfg.GenerationTimeout), nil
}

// LoadAWSConfig loads the shared AWS config for cfg's region. Static keys
// from the environment win over the default credential chain.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("bootstrap: load aws config: %w", err)
	}
	return awsCfg, nil
}
