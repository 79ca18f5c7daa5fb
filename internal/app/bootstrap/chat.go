package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/shivraj110504/RuralCare/internal/config"
	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/generation"
	"github.com/shivraj110504/RuralCare/internal/knowledge"
	"github.com/shivraj110504/RuralCare/internal/notify"
	"github.com/shivraj110504/RuralCare/internal/observability/metrics"
	"github.com/shivraj110504/RuralCare/internal/orders"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// LoadReferenceData returns the condition table and medicine catalog,
// reading the override files when configured.
func LoadReferenceData(cfg *appconfig.Config) (*knowledge.KnowledgeBase, *knowledge.Catalog, error) {
	kb := knowledge.DefaultKnowledgeBase()
	catalog := knowledge.DefaultCatalog()
	if cfg == nil {
		return kb, catalog, nil
	}

	if path := strings.TrimSpace(cfg.KnowledgeBasePath); path != "" {
		loaded, err := knowledge.LoadKnowledgeBaseFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: knowledge base: %w", err)
		}
		kb = loaded
	}
	if path := strings.TrimSpace(cfg.CatalogPath); path != "" {
		loaded, err := knowledge.LoadCatalogFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap: catalog: %w", err)
		}
		catalog = loaded
	}
	return kb, catalog, nil
}

// ChatRuntime is everything a chat surface needs, plus the cleanup for it.
type ChatRuntime struct {
	Deps    conversation.Dependencies
	Cart    *orders.CartService
	Redis   *redis.Client
	cleanup []func()
}

// Close releases the clients opened by BuildChatRuntime.
func (r *ChatRuntime) Close() {
	for i := len(r.cleanup) - 1; i >= 0; i-- {
		r.cleanup[i]()
	}
}

// BuildChatRuntime wires reference data, generation, orders, email and the
// transcript mirror into conversation dependencies.
func BuildChatRuntime(ctx context.Context, cfg *appconfig.Config, chatMetrics *metrics.ChatMetrics, logger *logging.Logger) (*ChatRuntime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	kb, catalog, err := LoadReferenceData(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("reference data loaded", "conditions", kb.Len(), "catalog_items", catalog.Len())

	rt := &ChatRuntime{}

	llm, err := BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if closer, ok := llm.(interface{ Close() error }); ok {
		rt.cleanup = append(rt.cleanup, func() { _ = closer.Close() })
	}

	store, closeStore, err := BuildOrderStore(ctx, cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.cleanup = append(rt.cleanup, closeStore)

	sender, err := BuildEmailSender(ctx, cfg, logger)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Cart = orders.NewCartService(store, notify.NewService(sender, logger), cfg.DeliveryFee, logger)

	rt.Redis = BuildRedisClient(ctx, cfg, logger, true)
	if rt.Redis != nil {
		client := rt.Redis
		rt.cleanup = append(rt.cleanup, func() { _ = client.Close() })
	}

	rt.Deps = conversation.Dependencies{
		KnowledgeBase: kb,
		Catalog:       catalog,
		Generator:     generation.NewGenerator(llm, logger, generation.WithMinChars(cfg.GenerationMinChars)),
		Cart:          rt.Cart,
		Transcript:    BuildTranscriptStore(rt.Redis),
		Metrics:       chatMetrics,
		Logger:        logger,
	}
	return rt, nil
}
