package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shivraj110504/RuralCare/internal/conversation"
)

type contextKey string

const userKey contextKey = "chatUser"

// SupabaseClaims are the parts of a Supabase access token we read.
type SupabaseClaims struct {
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	jwt.RegisteredClaims
}

// SupabaseAuth attaches the signed-in user to the request context. Requests
// without a bearer token continue anonymously; a token that fails
// verification is rejected. With no secret configured every request is
// anonymous.
func SupabaseAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" || secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims := SupabaseClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			user := &conversation.User{
				ID:    claims.Subject,
				Name:  metadataName(claims.UserMetadata),
				Email: claims.Email,
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser stores user on ctx.
func WithUser(ctx context.Context, user *conversation.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*conversation.User, bool) {
	user, ok := ctx.Value(userKey).(*conversation.User)
	return user, ok && user != nil
}

// bearerToken reads the token from the Authorization header, or from the
// access_token query parameter for websocket upgrades.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("access_token"))
}

func metadataName(meta map[string]any) string {
	for _, key := range []string{"name", "full_name"} {
		if v, ok := meta[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
