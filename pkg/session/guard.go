// Package session implements the admin session gate: one shared admin
// identity, a signed time-limited cookie token, and nothing else. There
// are no roles and no per-user authorization tiers.
package session

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the fixed session cookie name.
const CookieName = "admin_auth"

// DefaultTokenLifetime bounds a session.
const DefaultTokenLifetime = 12 * time.Hour

type sessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Guard issues and verifies admin session tokens.
type Guard struct {
	secret            []byte
	adminUsername     string
	adminPassword     string
	adminPasswordHash string
	production        bool
	lifetime          time.Duration
}

// Options configure a Guard.
type Options struct {
	Secret            string
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string // bcrypt; takes precedence over AdminPassword
	Production        bool
	Lifetime          time.Duration // defaults to DefaultTokenLifetime
}

// NewGuard creates the session guard. An empty secret disables token
// issuance and makes every verification fail (fail closed).
func NewGuard(opts Options) *Guard {
	lifetime := opts.Lifetime
	if lifetime == 0 {
		lifetime = DefaultTokenLifetime
	}
	return &Guard{
		secret:            []byte(opts.Secret),
		adminUsername:     opts.AdminUsername,
		adminPassword:     opts.AdminPassword,
		adminPasswordHash: opts.AdminPasswordHash,
		production:        opts.Production,
		lifetime:          lifetime,
	}
}

// CheckCredentials verifies the submitted login against the configured
// admin pair. Unconfigured admin always fails. Comparison is constant
// time; a bcrypt hash is used when configured.
func (g *Guard) CheckCredentials(username, password string) bool {
	if g.adminUsername == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.adminUsername)) == 1

	var passOK bool
	switch {
	case g.adminPasswordHash != "":
		passOK = bcrypt.CompareHashAndPassword([]byte(g.adminPasswordHash), []byte(password)) == nil
	case g.adminPassword != "":
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(g.adminPassword)) == 1
	default:
		return false
	}
	return userOK && passOK
}

// Issue creates a signed token binding the identity claim, expiring
// after the configured lifetime.
func (g *Guard) Issue(username string) (string, error) {
	if len(g.secret) == 0 {
		return "", jwt.ErrInvalidKey
	}
	now := time.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.lifetime)),
		},
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Verify checks signature and expiry. Any failure (bad signature,
// expired, malformed) collapses to a single invalid outcome; callers
// never learn which check failed.
func (g *Guard) Verify(tokenString string) (string, bool) {
	if len(g.secret) == 0 {
		return "", false
	}
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return g.secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}
	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return "", false
	}
	return username, true
}

// Cookie wraps a token in the session cookie: Path=/, HttpOnly,
// SameSite=Lax, plus Secure outside local/dev.
func (g *Guard) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   g.production,
		MaxAge:   int(g.lifetime / time.Second),
	}
}

// ClearCookie revokes the session: empty value, already expired, same
// attributes as the live cookie.
func (g *Guard) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   g.production,
		MaxAge:   -1,
	}
}

// FromRequest extracts and verifies the session from the request cookie.
func (g *Guard) FromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return g.Verify(cookie.Value)
}
