package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, sendPath, r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "key-1", r.PostForm.Get("apiKey"))
		assert.Equal(t, "+77010000000", r.PostForm.Get("recipient"))
		assert.Equal(t, "code 123456", r.PostForm.Get("text"))
		assert.Equal(t, "IMGKING", r.PostForm.Get("from"))
		_, _ = w.Write([]byte(`{"code":0,"data":{"messageId":"m-1"}}`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "key-1", Sender: "IMGKING", BaseURL: srv.URL})
	require.NoError(t, client.Send(context.Background(), "+77010000000", "code 123456"))
}

func TestSendGatewayErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"code":4,"data":{}}`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "key-1", BaseURL: srv.URL})
	err := client.Send(context.Background(), "+77010000000", "code")
	require.Error(t, err)
	assert.ErrorContains(t, err, "error code: 4")
}

func TestSendHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(Config{APIKey: "key-1", BaseURL: srv.URL})
	err := client.Send(context.Background(), "+77010000000", "code")
	require.Error(t, err)
	assert.ErrorContains(t, err, "gateway status")
}

func TestSendDryRunSkipsGateway(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := New(Config{APIKey: "key-1", DryRun: true, BaseURL: srv.URL})
	require.NoError(t, client.Send(context.Background(), "+77010000000", "code"))
	assert.False(t, called)
}

func TestEmptyKeyForcesDryRun(t *testing.T) {
	client := New(Config{})
	assert.True(t, client.cfg.DryRun)
	require.NoError(t, client.Send(context.Background(), "+77010000000", "code"))
}
