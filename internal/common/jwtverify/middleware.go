package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonhttp "github.com/AlibekovAA/user-registry/internal/common/http"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
)

type Claims struct {
	Subject string
}

type contextKey string

const claimsKey contextKey = "jwt_claims"

var (
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
	errMissingSubject          = errors.New("missing sub claim")
)

// Middleware requires a valid HS256 bearer token on every request it wraps.
func Middleware(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" || !strings.HasPrefix(raw, "Bearer ") {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_missing",
				}).Warn("jwt auth failed: missing or invalid authorization header")
				commonhttp.WriteAPIError(w, r, http.StatusUnauthorized, commonhttp.ErrMissingAuthorization.Message())
				return
			}

			claims, err := ParseToken(strings.TrimPrefix(raw, "Bearer "), secretBytes)
			if err != nil {
				log.WithFields(r.Context(), logger.Fields{
					"path":   r.URL.Path,
					"action": "jwt_invalid",
				}).Warnf("jwt auth failed: %v", err)
				commonhttp.WriteAPIError(w, r, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			ctx = commonhttp.WithClientID(ctx, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireForWrites applies Middleware to POST, PUT, PATCH and DELETE only.
// An empty secret disables the check.
func RequireForWrites(secret string, log *logger.Logger) func(next http.Handler) http.Handler {
	if secret == "" {
		return func(next http.Handler) http.Handler { return next }
	}

	guard := Middleware(secret, log)
	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				guarded.ServeHTTP(w, r)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func FromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

func ParseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errUnexpectedSigningMethod
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return Claims{}, err
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return Claims{}, err
	}
	if sub == "" {
		return Claims{}, errMissingSubject
	}

	return Claims{Subject: sub}, nil
}
