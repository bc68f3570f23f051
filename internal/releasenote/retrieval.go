// internal/releasenote/retrieval.go
package releasenote

import (
	"context"
	"encoding/json"
	"strings"

	"golang.org/x/sync/errgroup"

	"release-note-workers/internal/common/metrics"
	"release-note-workers/internal/llm"
)

// Marker phrases the retrieval prompt instructs the model to emit when the
// documentation holds nothing relevant. Answers containing them are dropped.
const (
	markerNoInformation     = "No relevant information found in the documentation"
	markerInformationAbsent = "requested information is not"
)

func isNoInformation(content string) bool {
	return strings.Contains(content, markerNoInformation) ||
		strings.Contains(content, markerInformationAbsent)
}

// retrieveContext answers each planned query against the documentation index.
// Queries run concurrently up to the configured parallelism; results keep the
// query order regardless of completion order. Failed queries and no-information
// answers are dropped rather than failing the stage.
func (g *Generator) retrieveContext(ctx context.Context, queries []string, scope string) []QueryAnswer {
	if len(queries) == 0 {
		return nil
	}

	answers := make([]string, len(queries))

	group := &errgroup.Group{}
	parallelism := g.gen.RetrievalParallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	group.SetLimit(parallelism)

	for i, query := range queries {
		i, query := i, query
		group.Go(func() error {
			content, err := g.llm.Complete(ctx, llm.Request{
				Operation:      "retrieve",
				Prompt:         promptContextRetriever,
				AdditionalInfo: query,
				UseSearch:      true,
				Scope:          scope,
				MaxTokens:      g.gen.SearchMaxTokens,
				Temperature:    g.gen.SearchTemperature,
			})
			if err != nil {
				g.logger.Warn("retrieval query failed", map[string]interface{}{
					"query": query,
					"error": err.Error(),
				})
				return nil
			}
			answers[i] = content
			return nil
		})
	}
	_ = group.Wait()

	results := make([]QueryAnswer, 0, len(queries))
	for i, query := range queries {
		content := answers[i]
		if content == "" {
			continue
		}
		if isNoInformation(content) {
			metrics.RetrievalAnswersDropped.Inc()
			g.logger.Debug("no information found for query", map[string]interface{}{
				"query": query,
			})
			continue
		}
		results = append(results, QueryAnswer{Query: query, Answer: content})
	}

	g.logger.Info("retrieval completed", map[string]interface{}{
		"queries": len(queries),
		"answers": len(results),
	})
	return results
}

// BuildSearchContext renders retrieved answers as the JSON object the
// synthesis prompts consume. Keys keep the query order; an empty result set
// renders as an empty string.
func BuildSearchContext(answers []QueryAnswer) string {
	if len(answers) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteByte('{')
	for i, qa := range answers {
		if i > 0 {
			sb.WriteString(", ")
		}
		key, _ := json.Marshal("Query: " + qa.Query)
		value, _ := json.Marshal("Answer: " + qa.Answer)
		sb.Write(key)
		sb.WriteString(": ")
		sb.Write(value)
	}
	sb.WriteByte('}')
	return sb.String()
}
