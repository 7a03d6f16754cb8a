// Package auth resolves a bearer credential to a caller identity and makes
// it available on the request context. Tokens are HS256 JWTs carrying the
// user id; the rest of the app trusts the resolved identity without
// re-verification.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Identity is the authenticated caller injected into r.Context().
type Identity struct {
	ID    string // user ObjectID hex
	Email string
	Name  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the caller identity and a found flag.
func CurrentUser(r *http.Request) (*Identity, bool) {
	u, ok := r.Context().Value(currentUserKey).(*Identity)
	return u, ok
}

// WithTestUser injects an identity directly, bypassing token parsing.
// For handler tests only.
func WithTestUser(r *http.Request, u *Identity) *http.Request {
	return withUser(r, u)
}

// Manager issues and verifies bearer tokens.
type Manager struct {
	secret []byte
	expiry time.Duration
	log    *zap.Logger
}

// NewManager validates the signing secret and returns a token manager.
func NewManager(secret string, expiry time.Duration, logger *zap.Logger) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("token secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), expiry: expiry, log: logger}, nil
}

type claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user. The subject is the user's ObjectID hex.
func (m *Manager) Issue(userID, email, name string) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	})
	return tok.SignedString(m.secret)
}

// parse verifies the token string and returns the identity it carries.
func (m *Manager) parse(tokenString string) (*Identity, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid || c.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return &Identity{ID: c.Subject, Email: c.Email, Name: c.Name}, nil
}

// LoadBearerUser injects the identity into context when the request carries
// a valid Authorization: Bearer token. Invalid tokens are ignored here;
// RequireSignedIn decides whether identity is mandatory.
func (m *Manager) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if raw := bearerToken(r); raw != "" {
			if u, err := m.parse(raw); err == nil {
				r = withUser(r, u)
			} else {
				m.log.Debug("bearer token rejected", zap.Error(err))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures an identity is present (set by LoadBearerUser).
// API callers with no valid credential get a plain 401 envelope.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"authentication required"}`))
	})
}

func withUser(r *http.Request, u *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
