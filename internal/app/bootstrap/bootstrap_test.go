package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appconfig "github.com/shivraj110504/RuralCare/internal/config"
	"github.com/shivraj110504/RuralCare/internal/conversation"
	"github.com/shivraj110504/RuralCare/internal/generation"
	"github.com/shivraj110504/RuralCare/internal/notify"
	"github.com/shivraj110504/RuralCare/internal/orders"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

func baseConfig() *appconfig.Config {
	return &appconfig.Config{
		LLMProvider:        "none",
		AWSRegion:          "us-east-1",
		AWSAccessKeyID:     "test",
		AWSSecretAccessKey: "test",
		EmailProvider:      "stub",
		DeliveryFee:        40,
	}
}

func TestBuildRedisClient(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, BuildRedisClient(ctx, nil, logging.Discard(), true))
	assert.Nil(t, BuildRedisClient(ctx, baseConfig(), logging.Discard(), true))

	mr := miniredis.RunT(t)
	cfg := baseConfig()
	cfg.RedisAddr = mr.Addr()
	client := BuildRedisClient(ctx, cfg, logging.Discard(), true)
	require.NotNil(t, client)
	_ = client.Close()

	mr.Close()
	assert.Nil(t, BuildRedisClient(ctx, cfg, logging.Discard(), true))
}

func TestBuildTranscriptStoreWithoutRedis(t *testing.T) {
	assert.Nil(t, BuildTranscriptStore(nil))
}

func TestBuildLLMClient(t *testing.T) {
	ctx := context.Background()

	_, err := BuildLLMClient(ctx, nil, logging.Discard())
	assert.Error(t, err)

	client, err := BuildLLMClient(ctx, baseConfig(), logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, client)

	cfg := baseConfig()
	cfg.LLMProvider = "auto"
	client, err = BuildLLMClient(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, client, "auto without credentials yields no client")

	cfg.BedrockModelID = "anthropic.claude-3-haiku"
	client, err = BuildLLMClient(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &generation.BedrockClient{}, client)

	cfg = baseConfig()
	cfg.LLMProvider = "gemini"
	_, err = BuildLLMClient(ctx, cfg, logging.Discard())
	assert.Error(t, err, "gemini needs an api key")

	cfg.LLMProvider = "bedrock"
	_, err = BuildLLMClient(ctx, cfg, logging.Discard())
	assert.Error(t, err, "bedrock needs a model id")

	cfg.LLMProvider = "openai"
	_, err = BuildLLMClient(ctx, cfg, logging.Discard())
	assert.Error(t, err)
}

func TestBuildEmailSender(t *testing.T) {
	ctx := context.Background()

	sender, err := BuildEmailSender(ctx, baseConfig(), logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender)

	cfg := baseConfig()
	cfg.EmailProvider = "sendgrid"
	sender, err = BuildEmailSender(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &notify.StubEmailSender{}, sender, "missing key degrades to stub")

	cfg.SendGridAPIKey = "SG.test"
	cfg.EmailFromAddress = "orders@ruralcare.test"
	sender, err = BuildEmailSender(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &notify.SendGridSender{}, sender)

	cfg.EmailProvider = "ses"
	sender, err = BuildEmailSender(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &notify.SESSender{}, sender)

	cfg.EmailProvider = "pigeon"
	_, err = BuildEmailSender(ctx, cfg, logging.Discard())
	assert.Error(t, err)
}

func TestBuildOrderStoreFallsBackToMemory(t *testing.T) {
	store, closeFn, err := BuildOrderStore(context.Background(), baseConfig(), logging.Discard())
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()
	assert.IsType(t, &orders.MemoryStore{}, store)
}

func TestLoadReferenceData(t *testing.T) {
	kb, catalog, err := LoadReferenceData(baseConfig())
	require.NoError(t, err)
	assert.Positive(t, kb.Len())
	assert.Positive(t, catalog.Len())

	cfg := baseConfig()
	cfg.CatalogPath = filepath.Join(t.TempDir(), "missing.json")
	_, _, err = LoadReferenceData(cfg)
	assert.Error(t, err)
}

func TestBuildChatRuntimeServesConversation(t *testing.T) {
	rt, err := BuildChatRuntime(context.Background(), baseConfig(), nil, logging.Discard())
	require.NoError(t, err)
	defer rt.Close()

	assert.Nil(t, rt.Redis)
	assert.Nil(t, rt.Deps.Transcript)
	require.NotNil(t, rt.Cart)

	user := &conversation.User{ID: "user-1", Name: "Ravi", Email: "ravi@example.com"}
	o := conversation.NewOrchestrator("boot", conversation.StaticIdentity{User: user}, rt.Deps)

	reply, err := o.Submit(context.Background(), "fever")
	require.NoError(t, err)
	require.NotEmpty(t, reply.Recommendations)

	_, err = o.AddToCart(context.Background(), reply.Recommendations[0].ID)
	require.NoError(t, err)
	placed, err := rt.Cart.Orders(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, placed, 1)

	reply, err = o.Submit(context.Background(), "what should I eat after a long hike")
	require.NoError(t, err)
	assert.Equal(t, generation.AuthFallback, reply.Text)
}
