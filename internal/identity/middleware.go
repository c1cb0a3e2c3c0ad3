package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/auth"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// PrincipalLookup loads the current principal for a user id. It fails for
// unknown or deactivated accounts.
type PrincipalLookup func(ctx context.Context, userID uint) (Principal, error)

// Authenticator establishes the request principal from a bearer token
type Authenticator struct {
	tokens *auth.TokenManager
	lookup PrincipalLookup
}

// NewAuthenticator creates an authenticator
func NewAuthenticator(tokens *auth.TokenManager, lookup PrincipalLookup) *Authenticator {
	return &Authenticator{tokens: tokens, lookup: lookup}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperror.Unauthorized("Authorization header required")
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", apperror.Unauthorized("Invalid authorization header format")
	}
	return parts[1], nil
}

func (a *Authenticator) authenticate(r *http.Request) (Principal, error) {
	token, err := bearerToken(r)
	if err != nil {
		return Principal{}, err
	}

	claims, err := a.tokens.ValidateToken(token)
	if err != nil {
		return Principal{}, apperror.Unauthorized("Invalid token")
	}

	// role and active flag come from the store so changes apply immediately
	p, err := a.lookup(r.Context(), claims.UserID)
	if err != nil {
		return Principal{}, err
	}
	return p, nil
}

// Required rejects requests without a valid token
func (a *Authenticator) Required(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := a.authenticate(r)
		if err != nil {
			logger.Warn(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			httpx.RespondError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}

// Admin rejects requests from non-admin principals
func (a *Authenticator) Admin(next http.HandlerFunc) http.HandlerFunc {
	return a.Required(func(w http.ResponseWriter, r *http.Request) {
		p, _ := FromContext(r.Context())
		if !p.IsAdmin() {
			logger.Warn(r.Context()).
				Uint("user_id", p.UserID).
				Str("role", p.Role.String()).
				Msg("Admin access denied")
			httpx.RespondError(w, r, apperror.Forbidden(apperror.CodeForbidden, "Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Optional identifies the caller when a valid token is present and otherwise
// serves the request anonymously
func (a *Authenticator) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, err := a.authenticate(r)
		if err != nil {
			logger.Debug(r.Context()).Err(err).Msg("Optional auth: continuing anonymously")
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	}
}
