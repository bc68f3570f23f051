// internal/releasenote/terminology.go
package releasenote

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"release-note-workers/internal/common/metrics"
	"release-note-workers/internal/llm"
)

// DefinitionCache caches layperson definitions resolved from the internal
// documentation, keyed by keyword.
type DefinitionCache interface {
	GetDefinition(ctx context.Context, keyword string) (string, error)
	SetDefinition(ctx context.Context, keyword, definition string) error
}

// removeInternalKeywords rewrites a release note so that internal jargon is
// replaced with layperson language. Keywords are extracted from the note,
// then resolved in two tiers: a keyword documented in the product index is
// already customer-facing and is left alone; everything else is defined from
// the internal index and substituted into the note. Any failure falls back
// to the unmodified note.
func (g *Generator) removeInternalKeywords(ctx context.Context, note, scope string) string {
	extracted, err := g.llm.Complete(ctx, llm.Request{
		Operation:   "extract-keywords",
		Prompt:      fmt.Sprintf(promptKeywordExtractor, note),
		MaxTokens:   g.gen.LookupMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		g.logger.Warn("keyword extraction failed", map[string]interface{}{"error": err.Error()})
		return note
	}

	keywords, err := ParseKeywords(extracted)
	if err != nil {
		g.logger.Warn("keyword parsing failed", map[string]interface{}{"error": err.Error()})
		return note
	}
	if len(keywords) == 0 {
		return note
	}

	replacements := map[string]string{}
	for _, keyword := range keywords {
		definition, internal := g.resolveKeyword(ctx, keyword, scope)
		if !internal {
			continue
		}
		replacements[keyword] = definition
	}
	if len(replacements) == 0 {
		return note
	}

	encoded, err := json.Marshal(replacements)
	if err != nil {
		return note
	}

	rewritten, err := g.llm.Complete(ctx, llm.Request{
		Operation:   "replace-keywords",
		Prompt:      fmt.Sprintf(promptKeywordReplacer, string(encoded), note),
		MaxTokens:   g.gen.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		g.logger.Warn("keyword replacement failed", map[string]interface{}{"error": err.Error()})
		return note
	}

	metrics.TerminologyReplacements.Add(float64(len(replacements)))
	g.logger.Info("internal keywords replaced", map[string]interface{}{
		"keywords": len(keywords),
		"replaced": len(replacements),
	})
	return rewritten
}

// resolveKeyword decides whether a keyword is internal and, if so, returns
// its layperson definition. The product documentation is consulted first;
// only the strict-scope marker counts as a miss there, any other answer
// means the keyword is customer-facing and needs no replacement.
func (g *Generator) resolveKeyword(ctx context.Context, keyword, scope string) (string, bool) {
	productAnswer, err := g.llm.Complete(ctx, llm.Request{
		Operation:      "lookup-product",
		Prompt:         promptProductDocSearch,
		AdditionalInfo: keyword,
		UseSearch:      true,
		Scope:          scope,
		MaxTokens:      g.gen.LookupMaxTokens,
		Temperature:    0,
	})
	if err == nil && !strings.Contains(productAnswer, markerInformationAbsent) {
		g.logger.Debug("keyword documented in product docs", map[string]interface{}{
			"keyword": keyword,
		})
		return "", false
	}

	if g.cache != nil {
		if cached, err := g.cache.GetDefinition(ctx, keyword); err == nil && cached != "" {
			return cached, true
		}
	}

	definition, err := g.llm.Complete(ctx, llm.Request{
		Operation:      "lookup-internal",
		Prompt:         promptKeywordDictionary,
		AdditionalInfo: keyword,
		UseSearch:      true,
		Scope:          g.search.InternalScope,
		MaxTokens:      g.gen.LookupMaxTokens,
		Temperature:    0,
	})
	if err != nil {
		g.logger.Warn("internal definition lookup failed", map[string]interface{}{
			"keyword": keyword,
			"error":   err.Error(),
		})
		return "", false
	}

	if g.cache != nil {
		if err := g.cache.SetDefinition(ctx, keyword, definition); err != nil {
			g.logger.Debug("definition cache write failed", map[string]interface{}{
				"keyword": keyword,
				"error":   err.Error(),
			})
		}
	}
	return definition, true
}
