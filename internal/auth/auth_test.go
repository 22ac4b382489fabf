package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = prev })
}

func testSession() *Session {
	return &Session{Subject: "42", Email: "ada@example.com", Name: "Ada", AccessToken: "backend-token"}
}

func TestMinter_Mint(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, now)

	m := NewMinter("shared-secret")
	tok, exp, err := m.Mint(testSession())
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.Equal(t, now, claims.IssuedAt.Time.UTC())
}

func TestMinter_OnlyIdentityClaims(t *testing.T) {
	m := NewMinter("shared-secret")
	tok, _, err := m.Mint(testSession())
	require.NoError(t, err)

	raw := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, raw)
	require.NoError(t, err)

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"sub", "email", "name", "iat", "exp", "jti"}, keys)
	assert.NotContains(t, tok, "backend-token")
}

func TestMinter_DistinctTokensSameClaims(t *testing.T) {
	fixClock(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	m := NewMinter("shared-secret")

	a, _, err := m.Mint(testSession())
	require.NoError(t, err)
	b, _, err := m.Mint(testSession())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ca, err := m.Verify(a)
	require.NoError(t, err)
	cb, err := m.Verify(b)
	require.NoError(t, err)
	assert.Equal(t, ca.Subject, cb.Subject)
	assert.Equal(t, ca.Email, cb.Email)
	assert.Equal(t, ca.Name, cb.Name)
}

func TestMinter_Failures(t *testing.T) {
	_, _, err := NewMinter("").Mint(testSession())
	assert.ErrorIs(t, err, ErrSigningKey)

	_, _, err = NewMinter("s").Mint(&Session{Email: "no-subject@example.com"})
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, _, err = NewMinter("s").Mint(nil)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestMinter_VerifyRejects(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, now)
	tok, _, err := NewMinter("a").Mint(testSession())
	require.NoError(t, err)

	_, err = NewMinter("b").Verify(tok)
	assert.Error(t, err, "wrong secret")

	fixClock(t, now.Add(time.Hour+time.Second))
	_, err = NewMinter("a").Verify(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func roundTrip(t *testing.T, store *SessionStore, sess *Session) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, sess))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store, err := NewSessionStore(StoreOptions{Secret: "session-secret"})
	require.NoError(t, err)

	got, err := store.Load(roundTrip(t, store, testSession()))
	require.NoError(t, err)
	assert.Equal(t, "42", got.Subject)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "backend-token", got.AccessToken)
	assert.False(t, got.IssuedAt.IsZero())
}

func TestSessionStore_Rejects(t *testing.T) {
	store, err := NewSessionStore(StoreOptions{Secret: "session-secret"})
	require.NoError(t, err)

	_, err = store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)

	tampered := httptest.NewRequest(http.MethodGet, "/", nil)
	tampered.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-real-session"})
	_, err = store.Load(tampered)
	assert.ErrorIs(t, err, ErrInvalidSession)

	other, err := NewSessionStore(StoreOptions{Secret: "another-secret"})
	require.NoError(t, err)
	_, err = other.Load(roundTrip(t, store, testSession()))
	assert.ErrorIs(t, err, ErrInvalidSession)

	assert.ErrorIs(t, store.Save(httptest.NewRecorder(), &Session{}), ErrInvalidSession)

	_, err = NewSessionStore(StoreOptions{})
	assert.ErrorIs(t, err, ErrSessionSecret)
}

func TestSessionStore_Clear(t *testing.T) {
	store, err := NewSessionStore(StoreOptions{Secret: "session-secret", Secure: true})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	store.Clear(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.True(t, cookies[0].Secure)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_NeedsRefresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, now)
	s := &Session{Subject: "1", IssuedAt: now.Add(-time.Hour)}
	assert.False(t, s.NeedsRefresh())
	s.IssuedAt = now.Add(-25 * time.Hour)
	assert.True(t, s.NeedsRefresh())
}

func TestSessionStore_Refresh(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fixClock(t, now)
	store, err := NewSessionStore(StoreOptions{Secret: "session-secret"})
	require.NoError(t, err)

	fresh := &Session{Subject: "1", IssuedAt: now.Add(-time.Hour)}
	rec := httptest.NewRecorder()
	did, err := store.Refresh(rec, fresh)
	require.NoError(t, err)
	assert.False(t, did)
	assert.Empty(t, rec.Result().Cookies())

	stale := &Session{Subject: "1", IssuedAt: now.Add(-48 * time.Hour)}
	rec = httptest.NewRecorder()
	did, err = store.Refresh(rec, stale)
	require.NoError(t, err)
	assert.True(t, did)
	assert.Len(t, rec.Result().Cookies(), 1)
	assert.Equal(t, now, stale.IssuedAt)
}
