package textgen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avkuzmin/tradetape/pkg/logger"
)

func newTestTextClient(serverURL string) *Client {
	return NewClient("test-key", serverURL, logger.New("test", io.Discard))
}

func TestGenerate_Success(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Write([]byte(`{
			"model": "gpt-4o-mini-2024",
			"choices": [{"message": {"role": "assistant", "content": "You chase momentum."}}]
		}`))
	}))
	defer server.Close()

	client := newTestTextClient(server.URL)
	text, model, err := client.Generate(context.Background(), "digest goes here")

	require.NoError(t, err)
	assert.Equal(t, "You chase momentum.", text)
	assert.Equal(t, "gpt-4o-mini-2024", model)
	assert.Equal(t, defaultModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "digest goes here", gotReq.Messages[0].Content)
}

func TestGenerate_ModelOverride(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"model": "gpt-4o", "choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer server.Close()

	client := newTestTextClient(server.URL)
	client.SetModel("gpt-4o")

	_, _, err := client.Generate(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", gotReq.Model)
}

func TestGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer server.Close()

	client := newTestTextClient(server.URL)
	_, _, err := client.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestGenerate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model": "gpt-4o-mini", "choices": []}`))
	}))
	defer server.Close()

	client := newTestTextClient(server.URL)
	_, _, err := client.Generate(context.Background(), "prompt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}
