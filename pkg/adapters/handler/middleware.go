package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"
	"github.com/murat/gimly/pkg/config"
)

type ctxKey string

// SubjectKey holds the token subject of an authenticated request.
const SubjectKey ctxKey = "subject"

const authCookie = "auth_token"

var errUnauthorized = errors.New("missing or invalid api token")

type Middleware struct {
	jwtSecret []byte
}

func NewMiddleware(cfg *config.Config) *Middleware {
	return &Middleware{
		jwtSecret: []byte(cfg.JWTSecret),
	}
}

// Enabled reports whether API tokens are required.
func (m *Middleware) Enabled() bool {
	return len(m.jwtSecret) > 0
}

// AuthMiddleware verifies an HS256 token from the Authorization header or the
// auth_token cookie. With no secret configured it lets every request through.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	if !m.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := tokenFromRequest(r)
		if tokenString == "" {
			render.Render(w, r, ErrUnauthorized(errUnauthorized))
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return m.jwtSecret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid {
			render.Render(w, r, ErrUnauthorized(errUnauthorized))
			return
		}

		ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(authCookie); err == nil {
		return cookie.Value
	}
	return ""
}
