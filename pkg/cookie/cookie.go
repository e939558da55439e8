package cookie

import (
	"errors"
	"net/http"
	"time"
)

var ErrCookieNotFound = errors.New("cookie: not found")

// Options control cookie attributes beyond the manager defaults.
type Options struct {
	Path     string
	Domain   string
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option mutates the effective cookie options for a single call.
type Option func(*Options)

// WithMaxAge sets the cookie lifetime in seconds.
func WithMaxAge(seconds int) Option {
	return func(o *Options) { o.MaxAge = seconds }
}

// WithPath restricts the cookie to a URL path prefix.
func WithPath(path string) Option {
	return func(o *Options) { o.Path = path }
}

// WithDomain scopes the cookie to a domain.
func WithDomain(domain string) Option {
	return func(o *Options) { o.Domain = domain }
}

// WithSecure marks the cookie as HTTPS-only.
func WithSecure(secure bool) Option {
	return func(o *Options) { o.Secure = secure }
}

// WithSameSite sets the SameSite policy.
func WithSameSite(mode http.SameSite) Option {
	return func(o *Options) { o.SameSite = mode }
}

// Manager writes and reads cookies with safe defaults: HttpOnly, SameSite
// Lax, path "/". Values never reach script-readable storage, which is the
// required transport for refresh tokens.
type Manager struct {
	defaults Options
}

// New creates a Manager. Options passed here become defaults for every
// Set/Delete call.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(&defaults)
	}
	return &Manager{defaults: defaults}
}

// Set writes a cookie with the manager defaults merged with per-call options.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) {
	options := m.defaults
	for _, opt := range opts {
		opt(&options)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
}

// Get returns the named cookie's value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Delete expires the named cookie immediately.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}
