package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestGuard(opts Options) *Guard {
	if opts.Secret == "" {
		opts.Secret = "test-secret-0123456789"
	}
	return NewGuard(opts)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	guard := newTestGuard(Options{})

	token, err := guard.Issue("linmei")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, ok := guard.Verify(token)
	assert.True(t, ok)
	assert.Equal(t, "linmei", username)
}

func TestVerify_ExpiredToken(t *testing.T) {
	// Negative lifetime issues a token already past its expiry.
	issuer := newTestGuard(Options{Lifetime: -time.Minute})
	verifier := newTestGuard(Options{})

	token, err := issuer.Issue("linmei")
	require.NoError(t, err)

	_, ok := verifier.Verify(token)
	assert.False(t, ok)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewGuard(Options{Secret: "secret-a"})
	verifier := NewGuard(Options{Secret: "secret-b"})

	token, err := issuer.Issue("linmei")
	require.NoError(t, err)

	_, ok := verifier.Verify(token)
	assert.False(t, ok)
}

func TestVerify_TamperedToken(t *testing.T) {
	guard := newTestGuard(Options{})
	token, err := guard.Issue("linmei")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, ok := guard.Verify(tampered)
	assert.False(t, ok)
}

func TestVerify_Garbage(t *testing.T) {
	guard := newTestGuard(Options{})
	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, ok := guard.Verify(tok)
		assert.False(t, ok, "token %q", tok)
	}
}

func TestVerify_NoSecretFailsClosed(t *testing.T) {
	guard := NewGuard(Options{})

	_, err := guard.Issue("linmei")
	assert.Error(t, err)

	_, ok := guard.Verify("anything")
	assert.False(t, ok)
}

func TestCheckCredentials_Plaintext(t *testing.T) {
	guard := newTestGuard(Options{AdminUsername: "admin", AdminPassword: "correct horse"})

	assert.True(t, guard.CheckCredentials("admin", "correct horse"))
	assert.False(t, guard.CheckCredentials("admin", "wrong"))
	assert.False(t, guard.CheckCredentials("other", "correct horse"))
}

func TestCheckCredentials_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	guard := newTestGuard(Options{
		AdminUsername: "admin",
		// The hash wins even when a plaintext password is also set.
		AdminPassword:     "decoy",
		AdminPasswordHash: string(hash),
	})

	assert.True(t, guard.CheckCredentials("admin", "correct horse"))
	assert.False(t, guard.CheckCredentials("admin", "decoy"))
}

func TestCheckCredentials_Unconfigured(t *testing.T) {
	assert.False(t, newTestGuard(Options{}).CheckCredentials("", ""))
	assert.False(t, newTestGuard(Options{AdminUsername: "admin"}).CheckCredentials("admin", ""))
}

func TestCookieAttributes(t *testing.T) {
	dev := newTestGuard(Options{})
	cookie := dev.Cookie("tok")
	assert.Equal(t, CookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.False(t, cookie.Secure)
	assert.Equal(t, int(DefaultTokenLifetime/time.Second), cookie.MaxAge)

	prod := newTestGuard(Options{Production: true})
	assert.True(t, prod.Cookie("tok").Secure)

	cleared := prod.ClearCookie()
	assert.Equal(t, CookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.True(t, cleared.Secure)
}

func TestFromRequest(t *testing.T) {
	guard := newTestGuard(Options{})
	token, err := guard.Issue("linmei")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	r.AddCookie(guard.Cookie(token))
	username, ok := guard.FromRequest(r)
	assert.True(t, ok)
	assert.Equal(t, "linmei", username)

	// No cookie at all.
	bare := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	_, ok = guard.FromRequest(bare)
	assert.False(t, ok)
}
