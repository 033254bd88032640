package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPMailerSend(t *testing.T) {
	var got message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "test-key", "no-reply@hospitofind.online", zap.NewNop())
	err := m.Send(context.Background(), "alice@example.com", "Welcome", "<p>Hi</p>")
	require.NoError(t, err)
	require.Equal(t, "Bearer test-key", auth)
	require.Equal(t, "no-reply@hospitofind.online", got.From)
	require.Equal(t, "alice@example.com", got.To)
	require.Equal(t, "Welcome", got.Subject)
	require.Equal(t, "<p>Hi</p>", got.HTML)
}

func TestHTTPMailerProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "test-key", "no-reply@hospitofind.online", zap.NewNop())
	err := m.Send(context.Background(), "alice@example.com", "Welcome", "<p>Hi</p>")
	require.ErrorContains(t, err, "502")
}

func TestNoopSend(t *testing.T) {
	n := &Noop{}
	require.NoError(t, n.Send(context.Background(), "alice@example.com", "Welcome", ""))
}
