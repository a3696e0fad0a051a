// Package auth gates the admin surface behind a stub credential check and
// cookie sessions. There is no real identity provider: a single configured
// admin email/password pair is compared in constant time.
package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/google/uuid"

	"github.com/Rahuman122003/blogify-module/internal/cache"
	"github.com/Rahuman122003/blogify-module/internal/config"
)

type Provider struct {
	email    string
	password string

	sessions *cache.Cache[string, string] // token -> email
}

func NewProvider(email, password string) *Provider {
	return &Provider{
		email:    email,
		password: password,
		sessions: cache.NewCache[string, string](),
	}
}

// Verify checks the stub credentials. Both comparisons run regardless of
// the first's outcome to keep the check constant time.
func (p *Provider) Verify(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(p.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(p.password)) == 1
	return emailOK && passOK
}

// StartSession mints a session token for the verified email.
func (p *Provider) StartSession(email string) string {
	token := uuid.New().String()
	p.sessions.Set(token, email)
	return token
}

func (p *Provider) EndSession(token string) {
	p.sessions.Delete(token)
}

// EmailFromRequest resolves the session cookie to the signed-in email.
func (p *Provider) EmailFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(config.CookieSession)
	if err != nil {
		return "", false
	}
	return p.sessions.Get(cookie.Value)
}

// RequireSession rejects requests without a valid session cookie.
func (p *Provider) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := p.EmailFromRequest(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(ContextWithEmail(r.Context(), email)))
	}
}
