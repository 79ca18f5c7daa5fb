package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"

	"github.com/shivraj110504/RuralCare/pkg/logging"
)

// Outcome says how a generation attempt ended.
type Outcome string

const (
	OutcomeGenerated  Outcome = "generated"
	OutcomeDegenerate Outcome = "degenerate"
	OutcomeFailed     Outcome = "failed"
)

// ErrorClass is the coarse failure category used to pick a fallback reply.
type ErrorClass string

const (
	ErrorClassNone    ErrorClass = ""
	ErrorClassAuth    ErrorClass = "auth"
	ErrorClassQuota   ErrorClass = "quota"
	ErrorClassUnknown ErrorClass = "unknown"
)

const (
	// AuthFallback is shown when the service rejects our credentials or no
	// client is configured.
	AuthFallback = "I'm currently experiencing technical difficulties. Please try asking about common symptoms like fever, cold, headache, or cough, and I'll provide helpful information based on our medical database."
	// QuotaFallback is shown on rate limiting or exhausted quota.
	QuotaFallback = "I'm currently experiencing high demand. Please try again in a few moments, or ask about common symptoms like fever, cold, headache, or cough for immediate assistance."
	// UnknownFallback is shown for any other failure.
	UnknownFallback = "I understand your concern. Based on your symptoms, I recommend consulting with a healthcare professional for a proper diagnosis. In the meantime, you can try some general remedies like staying hydrated and getting adequate rest."
	// DegenerateFallback replaces empty or too-short replies.
	DegenerateFallback = UnknownFallback
)

// DefaultMinChars is the shortest reply accepted verbatim.
const DefaultMinChars = 10

// Result is what Generate hands back. Text is always safe to show. Err keeps
// the underlying failure for logs and is never displayed.
type Result struct {
	Text    string
	Outcome Outcome
	Class   ErrorClass
	Err     error
}

// FallbackText returns the fixed reply for an error class.
func FallbackText(class ErrorClass) string {
	switch class {
	case ErrorClassAuth:
		return AuthFallback
	case ErrorClassQuota:
		return QuotaFallback
	default:
		return UnknownFallback
	}
}

// Generator makes exactly one call to the external service per prompt and
// shapes whatever comes back into a displayable Result. It never retries and
// never returns an error.
type Generator struct {
	client   LLMClient
	minChars int
	logger   *logging.Logger
}

// GeneratorOption customises a Generator.
type GeneratorOption func(*Generator)

// WithMinChars overrides the minimum accepted reply length.
func WithMinChars(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.minChars = n
		}
	}
}

// NewGenerator wraps client. A nil client is allowed and behaves like a
// service that rejects our credentials.
func NewGenerator(client LLMClient, logger *logging.Logger, opts ...GeneratorOption) *Generator {
	if logger == nil {
		logger = logging.Default()
	}
	g := &Generator{client: client, minChars: DefaultMinChars, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends prompt to the external service.
func (g *Generator) Generate(ctx context.Context, prompt string) (res Result) {
	if g == nil || g.client == nil {
		return Result{Text: AuthFallback, Outcome: OutcomeFailed, Class: ErrorClassAuth, Err: errors.New("generation: no client configured")}
	}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("generation: client panicked: %v", r)
			g.logger.Error("generation client panicked", "error", err)
			res = Result{Text: UnknownFallback, Outcome: OutcomeFailed, Class: ErrorClassUnknown, Err: err}
		}
	}()

	resp, err := g.client.Complete(ctx, PromptRequest(prompt))
	if err != nil {
		class := Classify(err)
		g.logger.Warn("generation failed", "error", err, "class", string(class))
		return Result{Text: FallbackText(class), Outcome: OutcomeFailed, Class: class, Err: err}
	}

	text := strings.TrimSpace(resp.Text)
	if len([]rune(text)) < g.minChars {
		g.logger.Info("generation returned degenerate reply", "length", len(text))
		return Result{Text: DegenerateFallback, Outcome: OutcomeDegenerate}
	}
	return Result{Text: text, Outcome: OutcomeGenerated}
}

// Classify maps a client error onto an ErrorClass. Typed provider errors are
// checked first; message text is the last resort. For joined errors the
// first member with a known class decides.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorClassNone
	}

	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		for _, member := range joined.Unwrap() {
			if class := Classify(member); class != ErrorClassUnknown && class != ErrorClassNone {
				return class
			}
		}
		return ErrorClassUnknown
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if class := classifyHTTPStatus(gerr.Code); class != ErrorClassNone {
			return class
		}
	}

	var aerr *apierror.APIError
	if errors.As(err, &aerr) {
		if class := classifyHTTPStatus(aerr.HTTPCode()); class != ErrorClassNone {
			return class
		}
		if st := aerr.GRPCStatus(); st != nil {
			switch st.Code() {
			case codes.Unauthenticated, codes.PermissionDenied:
				return ErrorClassAuth
			case codes.ResourceExhausted:
				return ErrorClassQuota
			}
		}
	}

	var (
		accessDenied *brtypes.AccessDeniedException
		throttled    *brtypes.ThrottlingException
		quota        *brtypes.ServiceQuotaExceededException
	)
	switch {
	case errors.As(err, &accessDenied):
		return ErrorClassAuth
	case errors.As(err, &throttled), errors.As(err, &quota):
		return ErrorClassQuota
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api_key"), strings.Contains(msg, "api key"),
		strings.Contains(msg, "permission"), strings.Contains(msg, "unauthenticated"):
		return ErrorClassAuth
	case strings.Contains(msg, "quota"), strings.Contains(msg, "limit"),
		strings.Contains(msg, "exhausted"):
		return ErrorClassQuota
	}
	return ErrorClassUnknown
}

func classifyHTTPStatus(code int) ErrorClass {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorClassAuth
	case http.StatusTooManyRequests:
		return ErrorClassQuota
	}
	return ErrorClassNone
}
