// internal/llm/client_test.go
package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"release-note-workers/internal/common/config"
	"release-note-workers/internal/common/logger"
)

func completionResponse(text string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"content": text},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func newTestClient(serverURL string, maxRetries int) *Client {
	return NewClient(
		config.LLMConfig{
			Endpoint:   serverURL,
			Deployment: "gpt-test",
			APIVersion: "2024-05-01-preview",
			APIKey:     "test-key",
			Timeout:    5000,
			MaxRetries: maxRetries,
		},
		config.SearchConfig{
			Endpoint:      "https://search.example.net",
			DefaultScope:  "product-docs-semantic-configuration",
			InternalScope: "internal-docs-semantic-configuration",
			TopDocuments:  3,
			Strictness:    3,
		},
		logger.NewNoOpLogger(),
	)
}

func TestCompletePlainRequest(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt-test/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-05-01-preview", r.URL.Query().Get("api-version"))
		assert.Equal(t, "test-key", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionResponse("generated text")))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 0)

	got, err := c.Complete(context.Background(), Request{
		Operation:      "analyze",
		Prompt:         "the prompt",
		AdditionalInfo: "extra context",
		MaxTokens:      800,
		Temperature:    0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)

	messages := captured["messages"].([]interface{})
	require.Len(t, messages, 1)
	content := messages[0].(map[string]interface{})["content"].(string)
	assert.Equal(t, "the prompt\nAdditional Details: extra context", content)

	assert.EqualValues(t, 800, captured["max_tokens"])
	assert.EqualValues(t, 1, captured["top_p"])
	assert.EqualValues(t, 0, captured["frequency_penalty"])
	assert.Nil(t, captured["data_sources"])
}

func TestCompleteSearchRequest(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionResponse("grounded answer")))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 0)

	got, err := c.Complete(context.Background(), Request{
		Operation:      "retrieve",
		Prompt:         "retrieval instructions",
		AdditionalInfo: "Define PVA?",
		UseSearch:      true,
		MaxTokens:      800,
	})
	require.NoError(t, err)
	assert.Equal(t, "grounded answer", got)

	// The query becomes the user message; the instruction rides along as
	// role information of the data source.
	messages := captured["messages"].([]interface{})
	content := messages[0].(map[string]interface{})["content"].(string)
	assert.Equal(t, "Define PVA?", content)

	assert.EqualValues(t, 0.5, captured["top_p"])
	assert.EqualValues(t, 0.5, captured["frequency_penalty"])

	sources := captured["data_sources"].([]interface{})
	require.Len(t, sources, 1)
	source := sources[0].(map[string]interface{})
	assert.Equal(t, "azure_search", source["type"])

	params := source["parameters"].(map[string]interface{})
	assert.Equal(t, "https://search.example.net", params["endpoint"])
	assert.Equal(t, "product-docs", params["index_name"])
	assert.Equal(t, "product-docs-semantic-configuration", params["semantic_configuration"])
	assert.Equal(t, "semantic", params["query_type"])
	assert.Equal(t, "retrieval instructions", params["role_information"])
	assert.Equal(t, true, params["in_scope"])
	assert.EqualValues(t, 3, params["strictness"])
	assert.EqualValues(t, 3, params["top_n_documents"])
	auth := params["authentication"].(map[string]interface{})
	assert.Equal(t, "system_assigned_managed_identity", auth["type"])
}

func TestCompleteCustomScope(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(completionResponse("ok")))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 0)

	_, err := c.Complete(context.Background(), Request{
		Operation: "lookup-internal",
		Prompt:    "p",
		UseSearch: true,
		Scope:     "internal-docs-semantic-configuration",
	})
	require.NoError(t, err)

	params := captured["data_sources"].([]interface{})[0].(map[string]interface{})["parameters"].(map[string]interface{})
	assert.Equal(t, "internal-docs", params["index_name"])
	assert.Equal(t, "internal-docs-semantic-configuration", params["semantic_configuration"])
}

func TestCompleteRetriesOnServerError(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(completionResponse("after retry")))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 2)

	got, err := c.Complete(context.Background(), Request{Operation: "analyze", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "after retry", got)
	assert.EqualValues(t, 2, attempts.Load())
}

func TestCompleteClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestClient(server.URL, 3)

	_, err := c.Complete(context.Background(), Request{Operation: "analyze", Prompt: "p"})
	assert.ErrorIs(t, err, ErrService)
	assert.EqualValues(t, 1, attempts.Load())
}

func TestCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL, 0)

	_, err := c.Complete(context.Background(), Request{Operation: "analyze", Prompt: "p"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestCompleteTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	c := newTestClient(server.URL, 0)
	c.cfg.Timeout = 50

	_, err := c.Complete(context.Background(), Request{Operation: "analyze", Prompt: "p"})
	assert.ErrorIs(t, err, ErrTimeout)
}
