package stability

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextToImage(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.TextPrompts, 1)
		assert.Equal(t, "a red fox", req.TextPrompts[0].Text)
		assert.Equal(t, 7.0, req.CfgScale)
		assert.Equal(t, 1152, req.Width)
		assert.Equal(t, 896, req.Height)
		assert.Equal(t, 1, req.Samples)

		resp := generateResponse{}
		resp.Artifacts = append(resp.Artifacts, struct {
			Base64 string `json:"base64"`
		}{Base64: base64.StdEncoding.EncodeToString(image)})
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	got, err := client.TextToImage(context.Background(), "a red fox", 1152, 896)
	require.NoError(t, err)
	assert.Equal(t, image, got)
}

func TestTextToImageHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(Config{APIKey: "bad", BaseURL: srv.URL})
	_, err := client.TextToImage(context.Background(), "p", 1024, 1024)
	require.Error(t, err)
	assert.ErrorContains(t, err, "unexpected status")
}

func TestTextToImageEmptyArtifacts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"artifacts":[]}`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := client.TextToImage(context.Background(), "p", 1024, 1024)
	require.Error(t, err)
	assert.ErrorContains(t, err, "empty artifact")
}

func TestTextToImageBadBase64(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"artifacts":[{"base64":"!!!not-base64!!!"}]}`))
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	_, err := client.TextToImage(context.Background(), "p", 1024, 1024)
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode artifact")
}

func TestNewDefaults(t *testing.T) {
	client := New(Config{APIKey: "sk-test"})
	assert.Equal(t, defaultBaseURL, client.cfg.BaseURL)
	assert.Equal(t, defaultEngine, client.cfg.Engine)
	assert.Equal(t, defaultCfgScale, client.cfg.CfgScale)
}

func TestTextToImageContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.TextToImage(ctx, "p", 1024, 1024)
	require.Error(t, err)
}
