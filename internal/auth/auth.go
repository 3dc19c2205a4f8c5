// Package auth guards the admin dashboard with a single configured
// credential and a signed session cookie.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

// SessionName is the name of the admin session cookie.
const SessionName = "blogspot_admin"

const (
	keyAdmin    = "admin"
	keyEmail    = "email"
	keyLoggedIn = "logged_in_at"
)

// ErrNoCredential is returned by Login when no admin credential is
// configured, so no Authenticate call can succeed.
var ErrNoCredential = errors.New("auth: admin credential not configured")

// Options configures a Manager.
type Options struct {
	Email    string
	Password string
	// PasswordHash is a bcrypt hash. When set, Password is ignored.
	PasswordHash string
	// Secret signs the session cookie. An empty secret generates a random
	// key, which invalidates sessions on every restart.
	Secret string
	MaxAge time.Duration
	// Secure marks the cookie as HTTPS only.
	Secure bool
}

// Manager verifies the admin credential and tracks admin sessions.
type Manager struct {
	store    *sessions.CookieStore
	email    string
	password []byte
	hash     []byte
}

// NewManager creates a Manager backed by a signed cookie store.
func NewManager(opts Options) (*Manager, error) {
	secret := []byte(opts.Secret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("auth: generating session key")
		}
		slog.Warn("no session secret configured: admin sessions will not survive a restart")
	}

	if opts.PasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(opts.PasswordHash)); err != nil {
			return nil, fmt.Errorf("auth: invalid password hash: %w", err)
		}
	}

	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	m := &Manager{store: store, email: opts.Email}
	if opts.PasswordHash != "" {
		m.hash = []byte(opts.PasswordHash)
	} else if opts.Password != "" {
		m.password = []byte(opts.Password)
	}
	return m, nil
}

// Configured reports whether a login can ever succeed.
func (m *Manager) Configured() bool {
	return m.email != "" && (m.hash != nil || m.password != nil)
}

// Authenticate reports whether email and password match the admin
// credential.
func (m *Manager) Authenticate(email, password string) bool {
	if !m.Configured() {
		return false
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(m.email)) == 1

	var passwordOK bool
	if m.hash != nil {
		passwordOK = bcrypt.CompareHashAndPassword(m.hash, []byte(password)) == nil
	} else {
		passwordOK = subtle.ConstantTimeCompare([]byte(password), m.password) == 1
	}

	return emailOK && passwordOK
}

// Login starts an admin session on the response. Callers authenticate
// first.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request) error {
	if !m.Configured() {
		return ErrNoCredential
	}

	// A tampered or expired cookie yields a fresh session alongside the
	// error, which is fine to overwrite.
	session, _ := m.store.Get(r, SessionName)
	session.Values[keyAdmin] = true
	session.Values[keyEmail] = m.email
	session.Values[keyLoggedIn] = time.Now().UTC().Unix()

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Logout expires the admin session cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, SessionName)
	session.Values = map[any]any{}
	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// IsAdmin reports whether the request carries a valid admin session.
func (m *Manager) IsAdmin(r *http.Request) bool {
	session, err := m.store.Get(r, SessionName)
	if err != nil {
		return false
	}
	ok, _ := session.Values[keyAdmin].(bool)
	return ok
}
