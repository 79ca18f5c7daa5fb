package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shivraj110504/RuralCare/internal/assistant"
	"github.com/shivraj110504/RuralCare/internal/generation"
	"github.com/shivraj110504/RuralCare/internal/knowledge"
	"github.com/shivraj110504/RuralCare/internal/observability/metrics"
	"github.com/shivraj110504/RuralCare/pkg/logging"
)

const (
	// LoginMessage answers any submission from an anonymous session.
	LoginMessage = "Please log in to get personalized health advice and medicine recommendations."
	// ErrorMessage replaces the reply when a cycle fails unexpectedly.
	ErrorMessage = "I'm sorry, I encountered an error while processing your request. Please try again later."

	assistantName      = "MediCare"
	welcomeUser        = "Hello %s! I'm %s's AI assistant powered by Gemini. How can I help you today?"
	welcomeAnonymous   = "Hello! I'm %s's AI assistant powered by Gemini. Please log in to get personalized health assistance."
	cartConfirmation   = "Great! I've added %s to your cart. You can complete your purchase in the medicine delivery section or add more items."
	anonymousIntentTag = "anonymous"
	errorIntentTag     = "error"
	guardOutcome       = "screened"
)

var (
	// ErrEmptyMessage is returned when a submission is blank after trimming.
	// Nothing is appended in that case.
	ErrEmptyMessage = errors.New("conversation: message is empty")
	// ErrNotAuthenticated is returned by AddToCart for anonymous sessions.
	ErrNotAuthenticated = errors.New("conversation: sign in required")
	// ErrSessionNotFound is returned by Manager lookups.
	ErrSessionNotFound = errors.New("conversation: session not found")
)

// DefaultQuickReplies are the condition chips offered next to the chat box.
var DefaultQuickReplies = []string{
	"Fever",
	"Common Cold",
	"Headache / Migraine",
	"Stomach Ache / Gastritis",
	"Indigestion / Acidity",
	"Diarrhea",
	"Constipation",
	"Cough",
	"Sore Throat / Tonsillitis",
	"Skin Rashes / Allergies",
	"Urinary Tract Infection (UTI)",
}

// State is the orchestrator's position in the reply cycle.
type State int32

const (
	StateIdle State = iota
	StateAwaitingResponse
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting_response"
	default:
		return "unknown"
	}
}

// Generator produces replies for messages no static rule answers.
type Generator interface {
	Generate(ctx context.Context, prompt string) generation.Result
}

// Dependencies are shared by every orchestrator a process creates.
type Dependencies struct {
	KnowledgeBase *knowledge.KnowledgeBase
	Catalog       *knowledge.Catalog
	Classifier    *assistant.Classifier
	Recommender   *assistant.Recommender
	Generator     Generator
	Cart          CartSink
	Transcript    TranscriptStore
	Metrics       *metrics.ChatMetrics
	Logger        *logging.Logger
}

// withDefaults fills the pieces that can be derived from the knowledge base
// and catalog.
func (d Dependencies) withDefaults() Dependencies {
	if d.KnowledgeBase == nil {
		d.KnowledgeBase = knowledge.DefaultKnowledgeBase()
	}
	if d.Catalog == nil {
		d.Catalog = knowledge.DefaultCatalog()
	}
	if d.Classifier == nil {
		d.Classifier = assistant.NewClassifier(d.KnowledgeBase)
	}
	if d.Recommender == nil {
		d.Recommender = assistant.NewRecommender(d.KnowledgeBase, d.Catalog)
	}
	if d.Generator == nil {
		d.Generator = generation.NewGenerator(nil, d.Logger)
	}
	if d.Logger == nil {
		d.Logger = logging.Default()
	}
	return d
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source used for message timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// Orchestrator runs the reply cycle for one conversation. Cycles are
// serialized: a submission made while another is in flight waits for it to
// finish, so the log always reads user, reply, user, reply.
type Orchestrator struct {
	conv     *Conversation
	identity IdentityProvider
	deps     Dependencies
	logger   *logging.Logger
	now      func() time.Time

	cycleMu    sync.Mutex
	state      atomic.Int32
	lastActive atomic.Int64
}

// NewOrchestrator creates an orchestrator for conversationID. A nil identity
// makes the session anonymous.
func NewOrchestrator(conversationID string, identity IdentityProvider, deps Dependencies, opts ...Option) *Orchestrator {
	if identity == nil {
		identity = StaticIdentity{}
	}
	deps = deps.withDefaults()
	o := &Orchestrator{
		conv:     NewConversation(conversationID),
		identity: identity,
		deps:     deps,
		logger:   deps.Logger.With("conversation_id", conversationID),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	o.touch()
	return o
}

func (o *Orchestrator) ID() string {
	return o.conv.ID()
}

// Conversation exposes the read side of the message log.
func (o *Orchestrator) Conversation() *Conversation {
	return o.conv
}

// Owner returns the user attached to the conversation, if any.
func (o *Orchestrator) Owner(ctx context.Context) (*User, bool) {
	return o.identity.CurrentUser(ctx)
}

func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// LastActive is when the conversation last changed.
func (o *Orchestrator) LastActive() time.Time {
	return time.Unix(0, o.lastActive.Load())
}

// Welcome appends the opening assistant message. It only does so on an
// empty conversation; the bool reports whether a message was added.
func (o *Orchestrator) Welcome(ctx context.Context) (Message, bool) {
	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	if o.conv.Len() > 0 {
		return Message{}, false
	}
	text := fmt.Sprintf(welcomeAnonymous, assistantName)
	if user, ok := o.identity.CurrentUser(ctx); ok {
		name := user.DisplayName()
		if name == "" {
			name = "there"
		}
		text = fmt.Sprintf(welcomeUser, name, assistantName)
	}
	return o.appendMessage(ctx, RoleAssistant, text, nil), true
}

// Submit handles text typed by the user and returns the assistant reply
// appended for it.
func (o *Orchestrator) Submit(ctx context.Context, text string) (Message, error) {
	return o.cycle(ctx, text, "typed")
}

// SubmitExternal handles text injected from outside the input box, such as
// a quick-reply chip. It behaves exactly like Submit.
func (o *Orchestrator) SubmitExternal(ctx context.Context, text string) (Message, error) {
	return o.cycle(ctx, text, "external")
}

func (o *Orchestrator) cycle(ctx context.Context, text, source string) (Message, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}

	// The user message lands in the log right away; only the replies are
	// serialized, so a queued submission is visible while another cycle runs.
	asked := o.appendMessage(ctx, RoleUser, text, nil)

	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	o.state.Store(int32(StateAwaitingResponse))
	defer o.state.Store(int32(StateIdle))
	start := time.Now()

	user, ok := o.identity.CurrentUser(ctx)
	if !ok {
		o.deps.Metrics.ObserveCycle(anonymousIntentTag, time.Since(start).Seconds())
		return o.appendReply(ctx, asked, LoginMessage, nil), nil
	}

	reply, recs, kind, err := o.respond(ctx, text, user)
	if err != nil {
		o.logger.Error("assistant cycle failed", "error", err, "source", source)
		o.deps.Metrics.ObserveCycle(errorIntentTag, time.Since(start).Seconds())
		return o.appendReply(ctx, asked, ErrorMessage, nil), nil
	}

	o.deps.Metrics.ObserveCycle(string(kind), time.Since(start).Seconds())
	o.logger.Debug("assistant replied", "intent", string(kind), "source", source, "recommendations", len(recs))
	return o.appendReply(ctx, asked, reply, recs), nil
}

// respond picks the branch for text and builds the reply. Panics inside a
// branch are turned into an error.
func (o *Orchestrator) respond(ctx context.Context, text string, user *User) (reply string, recs []knowledge.CatalogItem, kind assistant.IntentKind, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("conversation: reply cycle panicked: %v", r)
		}
	}()

	intent := o.deps.Classifier.Classify(text)
	kind = intent.Kind

	switch intent.Kind {
	case assistant.IntentGreeting:
		greeting, ok := o.deps.Classifier.GreetingReply(intent.Key)
		if !ok {
			return "", nil, kind, fmt.Errorf("conversation: no reply for greeting %q", intent.Key)
		}
		reply = greeting
	case assistant.IntentKnownCondition:
		cond, ok := o.deps.KnowledgeBase.Lookup(intent.Key)
		if !ok {
			return "", nil, kind, fmt.Errorf("conversation: condition %q missing from knowledge base", intent.Key)
		}
		reply = assistant.ComposeCondition(intent.Key, cond)
	case assistant.IntentGenericSymptom:
		reply = assistant.ComposeGenericSymptom()
	default:
		if s := assistant.ScreenInput(text); s.Blocked {
			o.logger.Warn("generation skipped for screened input", "reasons", s.Reasons, "score", s.Score)
			o.deps.Metrics.ObserveGeneration(guardOutcome, "input")
			reply = assistant.GuardedReply
			break
		}
		res := o.deps.Generator.Generate(ctx, assistant.BuildPrompt(text, user.DisplayName()))
		if s := assistant.ScreenReply(res.Text); s.Blocked {
			o.logger.Warn("generated reply withheld", "reasons", s.Reasons, "outcome", string(res.Outcome))
			o.deps.Metrics.ObserveGeneration(string(res.Outcome), string(res.Class))
			o.deps.Metrics.ObserveGeneration(guardOutcome, "reply")
			reply = generation.UnknownFallback
			break
		}
		o.deps.Metrics.ObserveGeneration(string(res.Outcome), string(res.Class))
		reply = res.Text
	}

	// Recommendations scan the final reply text, and only when the user
	// named a tracked condition.
	if intent.Kind == assistant.IntentKnownCondition {
		recs = o.deps.Recommender.Recommend(reply)
	}
	return reply, recs, kind, nil
}

// AddToCart orders a catalog item for the signed-in user and appends the
// confirmation message.
func (o *Orchestrator) AddToCart(ctx context.Context, itemID int) (Message, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	user, ok := o.identity.CurrentUser(ctx)
	if !ok {
		return Message{}, ErrNotAuthenticated
	}
	item, err := o.deps.Catalog.ByID(itemID)
	if err != nil {
		return Message{}, err
	}
	if o.deps.Cart == nil {
		return Message{}, errors.New("conversation: no cart configured")
	}

	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	ref, err := o.deps.Cart.AddToCart(ctx, *user, item)
	if err != nil {
		o.deps.Metrics.ObserveCartAdd("error")
		o.logger.Error("add to cart failed", "error", err, "item_id", item.ID)
		return Message{}, fmt.Errorf("conversation: add to cart: %w", err)
	}
	o.deps.Metrics.ObserveCartAdd("ok")
	o.logger.Info("item added to cart", "item_id", item.ID, "order_id", ref.OrderID)
	return o.appendMessage(ctx, RoleAssistant, fmt.Sprintf(cartConfirmation, item.Name), nil), nil
}

func (o *Orchestrator) appendMessage(ctx context.Context, role Role, text string, recs []knowledge.CatalogItem) Message {
	return o.record(ctx, Message{Role: role, Text: text, Recommendations: recs})
}

func (o *Orchestrator) appendReply(ctx context.Context, to Message, text string, recs []knowledge.CatalogItem) Message {
	return o.record(ctx, Message{Role: RoleAssistant, Text: text, Recommendations: recs, ReplyTo: to.Seq})
}

func (o *Orchestrator) record(ctx context.Context, m Message) Message {
	msg := o.conv.append(m, o.now())
	o.touch()
	if o.deps.Transcript != nil {
		if err := o.deps.Transcript.Append(ctx, o.conv.ID(), msg); err != nil {
			o.logger.Warn("transcript append failed", "error", err, "seq", msg.Seq)
		}
	}
	return msg
}

func (o *Orchestrator) touch() {
	o.lastActive.Store(time.Now().UnixNano())
}
