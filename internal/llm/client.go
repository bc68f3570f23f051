// internal/llm/client.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"release-note-workers/internal/common/config"
	"release-note-workers/internal/common/logger"
	"release-note-workers/internal/common/metrics"
)

var (
	ErrService         = errors.New("LLM_SERVICE_ERROR")
	ErrTimeout         = errors.New("LLM_TIMEOUT")
	ErrEmptyCompletion = errors.New("LLM_EMPTY_COMPLETION")
)

// Request describes one completion call. When UseSearch is set the call is
// retrieval-augmented: AdditionalInfo becomes the query subject and Prompt is
// installed as the role information of the data source; otherwise
// AdditionalInfo is appended to the prompt as a plain-text addendum.
type Request struct {
	Operation      string // metrics/logging label, e.g. "analyze", "retrieve"
	Prompt         string
	AdditionalInfo string
	UseSearch      bool
	Scope          string // semantic configuration name; empty = default
	MaxTokens      int
	Temperature    float64
	Strictness     int
}

// Client issues chat-completion requests against the text-generation service,
// optionally grounded in a knowledge index selected by the retrieval scope.
type Client struct {
	cfg    config.LLMConfig
	search config.SearchConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.LLMConfig, search config.SearchConfig, log logger.Logger) *Client {
	return &Client{
		cfg:    cfg,
		search: search,
		// No client-level timeout; the per-call context carries it.
		client: &http.Client{},
		logger: log.With(map[string]interface{}{"component": "llm"}),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages         []chatMessage `json:"messages"`
	MaxTokens        int           `json:"max_tokens"`
	Temperature      float64       `json:"temperature"`
	TopP             float64       `json:"top_p"`
	FrequencyPenalty float64       `json:"frequency_penalty"`
	PresencePenalty  float64       `json:"presence_penalty"`
	Stream           bool          `json:"stream"`
	DataSources      []dataSource  `json:"data_sources,omitempty"`
}

type dataSource struct {
	Type       string           `json:"type"`
	Parameters dataSourceParams `json:"parameters"`
}

type dataSourceParams struct {
	Endpoint              string                 `json:"endpoint"`
	IndexName             string                 `json:"index_name"`
	SemanticConfiguration string                 `json:"semantic_configuration"`
	QueryType             string                 `json:"query_type"`
	FieldsMapping         map[string]interface{} `json:"fields_mapping"`
	InScope               bool                   `json:"in_scope"`
	RoleInformation       string                 `json:"role_information"`
	Filter                interface{}            `json:"filter"`
	Strictness            int                    `json:"strictness"`
	TopNDocuments         int                    `json:"top_n_documents"`
	Authentication        map[string]string      `json:"authentication"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// Complete issues one completion request and returns the generated text.
// Transport failures, non-200 responses and empty completions are reported as
// ErrService; a deadline hit is reported as ErrTimeout.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, config.GetDuration(c.cfg.Timeout))
	defer cancel()

	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrService, err)
	}

	start := time.Now()
	text, err := c.send(ctx, req, body)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.LLMRequests.WithLabelValues(req.Operation, status).Inc()

	if err != nil {
		c.logger.Error("completion failed", map[string]interface{}{
			"operation": req.Operation,
			"useSearch": req.UseSearch,
			"duration":  time.Since(start).String(),
			"error":     err.Error(),
		})
		return "", err
	}

	c.logger.Debug("completion succeeded", map[string]interface{}{
		"operation":      req.Operation,
		"useSearch":      req.UseSearch,
		"duration":       time.Since(start).String(),
		"responseLength": len(text),
	})
	return text, nil
}

func (c *Client) buildRequest(req Request) chatRequest {
	content := req.Prompt
	if req.AdditionalInfo != "" && !req.UseSearch {
		content = req.Prompt + "\nAdditional Details: " + req.AdditionalInfo
	}

	out := chatRequest{
		Messages:    []chatMessage{{Role: "user", Content: content}},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		TopP:        1,
	}

	if req.UseSearch {
		// The query subject goes into the user message; the instruction
		// becomes the role information of the data source.
		if req.AdditionalInfo != "" {
			out.Messages[0].Content = req.AdditionalInfo
		}
		out.TopP = 0.5
		out.FrequencyPenalty = 0.5

		scope := c.search.ScopeOrDefault(req.Scope)
		strictness := req.Strictness
		if strictness == 0 {
			strictness = c.search.Strictness
		}
		out.DataSources = []dataSource{{
			Type: "azure_search",
			Parameters: dataSourceParams{
				Endpoint:              c.search.Endpoint,
				IndexName:             config.IndexForScope(scope),
				SemanticConfiguration: scope,
				QueryType:             "semantic",
				FieldsMapping:         map[string]interface{}{},
				InScope:               true,
				RoleInformation:       req.Prompt,
				Strictness:            strictness,
				TopNDocuments:         c.search.TopDocuments,
				Authentication: map[string]string{
					"type": "system_assigned_managed_identity",
				},
			},
		}}
	}

	return out
}

func (c *Client) send(ctx context.Context, req Request, body []byte) (string, error) {
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(c.cfg.Endpoint, "/"), c.cfg.Deployment, c.cfg.APIVersion)

	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrTimeout
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrService, err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.cfg.APIKey != "" {
			httpReq.Header.Set("api-key", c.cfg.APIKey)
		}

		resp, err := c.client.Do(httpReq)
		if err != nil {
			if ctx.Err() == context.DeadlineExceeded {
				return "", ErrTimeout
			}
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
			// 4xx responses do not improve on retry.
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return "", fmt.Errorf("%w: %v", ErrService, lastErr)
			}
			continue
		}

		var parsed chatResponse
		err = json.NewDecoder(resp.Body).Decode(&parsed)
		resp.Body.Close()
		if err != nil {
			return "", fmt.Errorf("%w: decode response: %v", ErrService, err)
		}

		if len(parsed.Choices) == 0 {
			return "", ErrEmptyCompletion
		}

		if reason := parsed.Choices[0].FinishReason; reason == "length" {
			c.logger.Warn("completion truncated at max tokens", map[string]interface{}{
				"operation": req.Operation,
				"maxTokens": req.MaxTokens,
			})
		}

		return parsed.Choices[0].Message.Content, nil
	}

	if ctx.Err() == context.DeadlineExceeded {
		return "", ErrTimeout
	}
	return "", fmt.Errorf("%w: %v", ErrService, lastErr)
}
