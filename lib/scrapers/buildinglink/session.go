package buildinglink

import (
	"net/url"
	"strings"
	"sync"
)

// SessionCookieName is the cookie whose presence in the jar is the sole
// signal of an authenticated session.
const SessionCookieName = ".AspNet.ApplicationCookie"

// Token holds the fields captured from the portal's OIDC callback form.
// the portal may echo fields beyond the well-known ones, so it stays an
// open string map instead of a fixed struct.
type Token map[string]string

func (t Token) Code() string         { return t["code"] }
func (t Token) IdToken() string      { return t["id_token"] }
func (t Token) AccessToken() string  { return t["access_token"] }
func (t Token) TokenType() string    { return t["token_type"] }
func (t Token) ExpiresIn() string    { return t["expires_in"] }
func (t Token) Scope() string        { return t["scope"] }
func (t Token) State() string        { return t["state"] }
func (t Token) SessionState() string { return t["session_state"] }

// Session is the per-client state mutated by the response interceptors:
// the cookie jar, the captured OIDC token and the redirect-loop history.
// a mutex guards it so independent top-level calls on one client don't
// corrupt the maps, but the pipeline itself is strictly sequential.
type Session struct {
	mu      sync.Mutex
	cookies map[string]string
	token   Token
	history []string
}

func NewSession() *Session {
	return &Session{cookies: map[string]string{}}
}

// IsAuthenticated reports whether the session cookie is present in the
// jar. authentication state is always derived from the jar, never stored.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cookies[SessionCookieName]
	return ok
}

func (s *Session) Cookie(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.cookies[name]
	return value, ok
}

func (s *Session) SetCookie(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies[name] = value
}

// Cookies returns a copy of the jar.
func (s *Session) Cookies() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.cookies))
	for name, value := range s.cookies {
		out[name] = value
	}
	return out
}

// CookieHeader serializes the jar into a single request cookie header.
func (s *Session) CookieHeader() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	pairs := make([]string, 0, len(s.cookies))
	for name, value := range s.cookies {
		pairs = append(pairs, name+"="+value)
	}
	return strings.Join(pairs, "; ")
}

// CaptureCookies stores every set-cookie entry into the jar, keyed by
// trimmed name with the value percent-decoded. last write wins.
func (s *Session) CaptureCookies(setCookies []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range setCookies {
		pair, _, _ := strings.Cut(entry, ";")
		name, value, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		decoded, err := url.QueryUnescape(value)
		if err != nil {
			decoded = value
		}
		s.cookies[name] = decoded
	}
}

func (s *Session) Token() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) SetToken(token Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// remember records a request key in the loop-detection history. it
// reports false when the key was already present, which means the
// unauthenticated flow has come back around to a request it already made.
func (s *Session) remember(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seen := range s.history {
		if seen == key {
			return false
		}
	}
	s.history = append(s.history, key)
	return true
}

// ClearHistory drops the loop-detection history. it is reset the moment
// the session becomes authenticated, since post-login navigation
// legitimately revisits URLs.
func (s *Session) ClearHistory() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}
