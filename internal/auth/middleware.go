package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/sakif/folio/internal/model"
)

// contextKey keeps this package's context values out of everyone else's way.
type contextKey string

const (
	sessionIDKey   contextKey = "editorSessionID"
	tokenExpiryKey contextKey = "editorTokenExpiry"
)

// CookieName is the cookie holding the editor token for kind. Each template
// type gets its own cookie so the three editors can be open side by side.
func CookieName(kind model.Kind) string {
	return "folio_edit_" + string(kind)
}

// EditorSession reads the editor cookie for the template type returned by
// kindOf and, when it carries a valid token, stores the session ID in the
// request context. Requests without one continue anonymously: the editor
// handler opens a fresh session for them.
func EditorSession(tokens *TokenService, kindOf func(*http.Request) (model.Kind, bool)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			kind, ok := kindOf(r)
			if ok {
				if c, err := extractClaims(r, tokens, kind); err == nil {
					ctx := WithSessionID(r.Context(), c.SessionID)
					r = r.WithContext(context.WithValue(ctx, tokenExpiryKey, c.ExpiresAt))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSessionID returns a copy of ctx carrying id.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionIDFromContext returns the editor session ID placed by EditorSession.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

// TokenExpiryFromContext returns when the cookie read by EditorSession expires.
func TokenExpiryFromContext(ctx context.Context) (time.Time, bool) {
	exp, ok := ctx.Value(tokenExpiryKey).(time.Time)
	return exp, ok
}

// SetSessionCookie issues a token for sessionID and writes it as an
// HttpOnly cookie scoped to the editor of kind.
func SetSessionCookie(w http.ResponseWriter, tokens *TokenService, kind model.Kind, sessionID string) error {
	token, err := tokens.Generate(sessionID, kind)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearSessionCookie removes the editor cookie for kind.
func ClearSessionCookie(w http.ResponseWriter, kind model.Kind) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(kind),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func extractClaims(r *http.Request, tokens *TokenService, kind model.Kind) (Claims, error) {
	cookie, err := r.Cookie(CookieName(kind))
	if err != nil {
		return Claims{}, err
	}
	return tokens.Parse(cookie.Value, kind)
}
