package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fallback string
		want     string
	}{
		{"detail wins", `{"detail":"X","error":"Y","message":"Z"}`, "fb", "X"},
		{"error over message", `{"error":"Y","message":"Z"}`, "fb", "Y"},
		{"message", `{"message":"Z"}`, "fb", "Z"},
		{"fastapi list", `{"detail":[{"msg":"field required"},{"msg":"value is not a valid email"}]}`, "fb", "field required; value is not a valid email"},
		{"empty detail falls through", `{"detail":"","error":"Y"}`, "fb", "Y"},
		{"non-string detail object", `{"detail":{"code":1},"error":"Y"}`, "fb", "Y"},
		{"no known fields", `{"status":"bad"}`, "fb", "fb"},
		{"not json", `<html>502</html>`, "fb", "fb"},
		{"empty", ``, "fb", "fb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message([]byte(tt.body), tt.fallback))
		})
	}
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestFromTransport(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
		msg    string
	}{
		{"deadline", fmt.Errorf("do: %w", context.DeadlineExceeded), KindBackendUnreachable, http.StatusServiceUnavailable, MsgTimeout},
		{"net timeout", &net.OpError{Op: "read", Err: timeoutErr{}}, KindBackendUnreachable, http.StatusServiceUnavailable, MsgTimeout},
		{"refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, KindBackendUnreachable, http.StatusServiceUnavailable, MsgConnectionRefused},
		{"generic", errors.New("no such host"), KindBackendUnreachable, http.StatusServiceUnavailable, MsgNetwork},
		{"canceled", context.Canceled, KindUnexpected, http.StatusInternalServerError, MsgUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromTransport(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.status, got.Status)
			assert.Equal(t, tt.msg, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
	assert.Nil(t, FromTransport(nil))
}

func TestFromTransport_ClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := &http.Client{Timeout: 20 * time.Millisecond}
	_, err := c.Get(srv.URL)
	require.Error(t, err)
	assert.True(t, IsTimeout(FromTransport(err)))
}

func TestErrorIsByKind(t *testing.T) {
	err := fmt.Errorf("submit: %w", Validation("Please fill in all required fields"))
	assert.ErrorIs(t, err, &Error{Kind: KindValidation})
	assert.NotErrorIs(t, err, &Error{Kind: KindBackendRejected})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, "Please fill in all required fields", MessageOf(err, "fb"))
	assert.Equal(t, "fb", MessageOf(errors.New("plain"), "fb"))
}

func TestRejected(t *testing.T) {
	e := Rejected(http.StatusUnprocessableEntity, []byte(`{"detail":"X"}`), "fb")
	assert.Equal(t, KindBackendRejected, e.Kind)
	assert.Equal(t, http.StatusUnprocessableEntity, e.Status)
	assert.Equal(t, "X", e.Message)
}

func TestUnexpected_HidesCause(t *testing.T) {
	cause := errors.New("invalid character 'x' looking for beginning of value")
	e := Unexpected(cause)

	assert.Equal(t, MsgUnexpected, e.Message)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.ErrorIs(t, e, cause)
	assert.Equal(t, MsgUnexpected, MessageOf(e, "fb"))
}
