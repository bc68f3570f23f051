// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"release-note-workers/internal/common/config"
	"release-note-workers/internal/common/logger"
	"release-note-workers/internal/llm"
	"release-note-workers/internal/releasenote"
	generatenote "release-note-workers/internal/workers/releasenote/generate-note"
)

type chatPayload struct {
	Messages []struct {
		Content string `json:"content"`
	} `json:"messages"`
	DataSources []struct {
		Parameters struct {
			IndexName             string `json:"index_name"`
			SemanticConfiguration string `json:"semantic_configuration"`
		} `json:"parameters"`
	} `json:"data_sources"`
}

func completion(text string) []byte {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": text}, "finish_reason": "stop"},
		},
	}
	data, _ := json.Marshal(resp)
	return data
}

// fakeLLMServer answers each pipeline stage based on the prompt it receives,
// the way the real text-generation service would.
func fakeLLMServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload chatPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.NotEmpty(t, payload.Messages)
		content := payload.Messages[0].Content

		// Retrieval-augmented calls carry a data source; the user message
		// is the query.
		if len(payload.DataSources) > 0 {
			if strings.Contains(content, "ACW") {
				w.Write(completion("No relevant information found in the documentation."))
				return
			}
			w.Write(completion("Documentation answer for: " + content))
			return
		}

		switch {
		case strings.Contains(content, "step-by-step approach"):
			w.Write(completion(`{"ShortDescription": "Reduced chat routing latency", ` +
				`"CustomerImpact": "Chats connect faster", ` +
				`"ActivityType": "enhancement", "Keywords": ["Routing", "ACW"]}`))
		case strings.Contains(content, "generates 5 queries"):
			w.Write(completion(`{"queries": ["Define Routing?", "What is ACW?"]}`))
		case strings.Contains(content, "Query and Answer JSON"):
			w.Write(completion("Customers are connected to agents with less waiting."))
		case strings.Contains(content, "generate a release note for the following provided input"):
			w.Write(completion("Chats now connect to agents faster, reducing customer wait times."))
		case strings.Contains(content, "agent that generates release notes"):
			w.Write(completion("```markdown\n# New/Enhanced Functionality\n- Faster chat routing (Bug 42)\n\n# Repaired Functionality\n- Fixed disconnects (Bug 43)\n```"))
		default:
			t.Errorf("unexpected prompt: %.80s", content)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func newGenerator(serverURL string, t *testing.T) *releasenote.Generator {
	searchCfg := config.SearchConfig{
		Endpoint:      "https://search.example.net",
		DefaultScope:  "product-docs-semantic-configuration",
		InternalScope: "internal-docs-semantic-configuration",
		TopDocuments:  3,
		Strictness:    3,
	}
	llmClient := llm.NewClient(config.LLMConfig{
		Endpoint:   serverURL,
		Deployment: "gpt-test",
		APIVersion: "2024-05-01-preview",
		Timeout:    10000,
	}, searchCfg, logger.NewTestLogger(t))

	return releasenote.New(llmClient, nil, searchCfg, config.GenerationConfig{
		MaxTokens:            800,
		Temperature:          0.2,
		SearchMaxTokens:      800,
		SearchTemperature:    0,
		LookupMaxTokens:      400,
		BulkMaxTokens:        2000,
		RetrievalParallelism: 3,
	}, logger.NewTestLogger(t))
}

func TestSingleModePipeline(t *testing.T) {
	server := fakeLLMServer(t)
	defer server.Close()

	g := newGenerator(server.URL, t)

	result, err := g.Generate(context.Background(), releasenote.Input{
		Single:  true,
		Payload: `{"id": 42, "title": "Reduce chat routing latency", "description": "..."}`,
	})
	require.NoError(t, err)

	assert.Equal(t, "Reduced chat routing latency", result.WorkItemDetails.ShortDescription)
	assert.Equal(t, []string{"Define Routing?", "What is ACW?"}, result.Queries)

	// The ACW query found nothing and is excluded from the context.
	assert.Contains(t, result.SearchContext, `"Query: Define Routing?"`)
	assert.NotContains(t, result.SearchContext, "ACW")

	assert.Equal(t, "Customers are connected to agents with less waiting.", result.UserImpact)
	assert.Equal(t, "Chats now connect to agents faster, reducing customer wait times.",
		result.PrimaryNote())
}

func TestBulkModePipeline(t *testing.T) {
	server := fakeLLMServer(t)
	defer server.Close()

	g := newGenerator(server.URL, t)

	notes, err := g.GenerateBulk(context.Background(),
		`[{"id": 42, "note": "Faster chat routing"}, {"id": 43, "note": "Fixed disconnects"}]`)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(notes, "# New/Enhanced Functionality"))
	assert.Contains(t, notes, "# Repaired Functionality")
	assert.NotContains(t, notes, "```")
}

func TestWorkerExecuteEndToEnd(t *testing.T) {
	server := fakeLLMServer(t)
	defer server.Close()

	g := newGenerator(server.URL, t)
	handler := generatenote.NewHandler(generatenote.LoadConfig(), g, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &generatenote.Input{
		Single:  true,
		Payload: json.RawMessage(`{"id": 42, "title": "Reduce chat routing latency"}`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Chats now connect to agents faster, reducing customer wait times.",
		output.ReleaseNote)
	assert.Equal(t, output.ReleaseNote, output.ReleaseNotes[releasenote.NoteVariantPrimary])
	assert.Len(t, output.Queries, 2)
}
