package auth

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// timeNow is time.Now but pulled out as a variable for tests.
var timeNow = time.Now

// SessionCookieName is the cookie carrying the sealed session.
const SessionCookieName = "jobtracker.session"

// UpdateAge is how old a session may get before it is re-issued.
const UpdateAge = 24 * time.Hour

var (
	// ErrNoSession is returned when the request carries no session cookie.
	ErrNoSession = errors.New("auth: no session")
	// ErrInvalidSession is returned when the cookie cannot be opened, has
	// expired, or lacks a subject.
	ErrInvalidSession = errors.New("auth: invalid session")
	// ErrSessionSecret is returned when the store is built without a secret.
	ErrSessionSecret = errors.New("auth: session secret is empty")
)

// Session is the authenticated identity kept in the browser cookie.
type Session struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	// AccessToken is the long-lived token the backend issued at login.
	AccessToken string    `json:"access_token,omitempty"`
	IssuedAt    time.Time `json:"iat"`
}

// Valid reports whether the session identifies someone.
func (s *Session) Valid() bool {
	return s != nil && s.Subject != ""
}

// NeedsRefresh reports whether the cookie should be re-issued.
func (s *Session) NeedsRefresh() bool {
	return timeNow().Sub(s.IssuedAt) >= UpdateAge
}

// StoreOptions configures the session cookie.
type StoreOptions struct {
	Secret string
	MaxAge time.Duration
	Secure bool
	Path   string
}

// SessionStore seals sessions into a signed and encrypted cookie.
type SessionStore struct {
	sc     *securecookie.SecureCookie
	maxAge time.Duration
	secure bool
	path   string
}

// NewSessionStore returns a store keyed from opts.Secret. The hash key is the
// secret itself and the AES key is its SHA-256 digest.
func NewSessionStore(opts StoreOptions) (*SessionStore, error) {
	if opts.Secret == "" {
		return nil, ErrSessionSecret
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 30 * 24 * time.Hour
	}
	if opts.Path == "" {
		opts.Path = "/"
	}
	blockKey := sha256.Sum256([]byte(opts.Secret))
	sc := securecookie.New([]byte(opts.Secret), blockKey[:])
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(opts.MaxAge / time.Second))
	return &SessionStore{sc: sc, maxAge: opts.MaxAge, secure: opts.Secure, path: opts.Path}, nil
}

// Load opens the session carried by r.
func (s *SessionStore) Load(r *http.Request) (*Session, error) {
	c, err := r.Cookie(SessionCookieName)
	if err != nil || c.Value == "" {
		return nil, ErrNoSession
	}
	var sess Session
	if err := s.sc.Decode(SessionCookieName, c.Value, &sess); err != nil {
		return nil, ErrInvalidSession
	}
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}
	return &sess, nil
}

// Save stamps the session with the current time and writes the cookie.
func (s *SessionStore) Save(w http.ResponseWriter, sess *Session) error {
	if !sess.Valid() {
		return ErrInvalidSession
	}
	sess.IssuedAt = timeNow()
	value, err := s.sc.Encode(SessionCookieName, sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, s.cookie(value, s.maxAge))
	return nil
}

// Refresh re-issues the cookie when sess is older than UpdateAge and reports
// whether it did.
func (s *SessionStore) Refresh(w http.ResponseWriter, sess *Session) (bool, error) {
	if !sess.NeedsRefresh() {
		return false, nil
	}
	return true, s.Save(w, sess)
}

// Clear expires the session cookie.
func (s *SessionStore) Clear(w http.ResponseWriter) {
	c := s.cookie("", -time.Hour)
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (s *SessionStore) cookie(value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     s.path,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  timeNow().Add(ttl),
		MaxAge:   int(ttl / time.Second),
	}
}
