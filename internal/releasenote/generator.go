// internal/releasenote/generator.go
package releasenote

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"release-note-workers/internal/common/config"
	"release-note-workers/internal/common/errors"
	"release-note-workers/internal/common/logger"
	"release-note-workers/internal/common/metrics"
	"release-note-workers/internal/llm"
)

// Fallback text when the impact synthesis stage fails. The composer still
// runs; downstream consumers see this marker instead of an empty impact.
const impactUndetermined = "impact undetermined"

const bulkTemperature = 0.1

// Completer is the text-generation dependency of the pipeline.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// Generator runs the release-note pipeline: work-item analysis, query
// planning, documentation retrieval, impact synthesis and note composition,
// with optional terminology resolution on the composed note.
type Generator struct {
	llm    Completer
	cache  DefinitionCache
	search config.SearchConfig
	gen    config.GenerationConfig
	logger logger.Logger
}

// New builds a Generator. cache may be nil; terminology resolution then
// always consults the internal documentation.
func New(
	completer Completer,
	cache DefinitionCache,
	search config.SearchConfig,
	gen config.GenerationConfig,
	log logger.Logger,
) *Generator {
	return &Generator{
		llm:    completer,
		cache:  cache,
		search: search,
		gen:    gen,
		logger: log.With(map[string]interface{}{"component": "generator"}),
	}
}

// Generate runs the single-item pipeline over a raw work-item payload.
func (g *Generator) Generate(ctx context.Context, in Input) (*Result, error) {
	runID := uuid.NewString()
	log := g.logger.With(map[string]interface{}{"runId": runID})

	if in.Payload == "" {
		return nil, errors.NewValidationError("payload is empty")
	}

	scope := g.search.ScopeOrDefault(in.Documentation)
	log.Info("starting release note pipeline", map[string]interface{}{
		"scope":                  scope,
		"useInternalDoc":         in.UseInternalDoc,
		"removeInternalKeywords": in.RemoveInternalKeywords,
	})

	start := time.Now()
	durations := map[string]time.Duration{}

	details, err := g.analyzeWorkItem(ctx, in.Payload)
	durations["analyze"] = time.Since(start)
	observeStage("analyze", durations["analyze"])
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("single", "error").Inc()
		return nil, err
	}

	stageStart := time.Now()
	queries := g.planQueries(ctx, details)
	durations["plan"] = time.Since(stageStart)
	observeStage("plan", durations["plan"])

	stageStart = time.Now()
	answers := g.retrieveContext(ctx, queries, scope)
	durations["retrieve"] = time.Since(stageStart)
	observeStage("retrieve", durations["retrieve"])

	searchContext := BuildSearchContext(answers)

	stageStart = time.Now()
	impact := g.synthesizeImpact(ctx, searchContext, details.ShortDescription)
	durations["synthesize"] = time.Since(stageStart)
	observeStage("synthesize", durations["synthesize"])

	stageStart = time.Now()
	notes, err := g.composeNotes(ctx, in, details, searchContext, impact, scope)
	durations["compose"] = time.Since(stageStart)
	observeStage("compose", durations["compose"])
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("single", "error").Inc()
		return nil, err
	}

	metrics.PipelineRuns.WithLabelValues("single", "success").Inc()
	log.Info("release note pipeline completed", map[string]interface{}{
		"totalDuration": time.Since(start).String(),
		"queries":       len(queries),
		"answers":       len(answers),
		"noteLength":    len(notes[NoteVariantPrimary]),
	})

	return &Result{
		WorkItemDetails: details,
		Queries:         queries,
		SearchContext:   searchContext,
		UserImpact:      impact,
		ReleaseNotes:    notes,
		Durations:       durations,
	}, nil
}

// GenerateBulk formats a collection of pre-written notes into the grouped
// markdown release update.
func (g *Generator) GenerateBulk(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", errors.NewValidationError("payload is empty")
	}

	start := time.Now()
	output, err := g.llm.Complete(ctx, llm.Request{
		Operation:   "format-bulk",
		Prompt:      fmt.Sprintf(promptBulkFormatter, payload),
		MaxTokens:   g.gen.BulkMaxTokens,
		Temperature: bulkTemperature,
	})
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("bulk", "error").Inc()
		return "", classifyLLMError(err)
	}

	notes := stripMarkdownFences(output)

	metrics.PipelineRuns.WithLabelValues("bulk", "success").Inc()
	g.logger.Info("bulk release notes generated", map[string]interface{}{
		"duration":   time.Since(start).String(),
		"noteLength": len(notes),
	})
	return notes, nil
}

func (g *Generator) analyzeWorkItem(ctx context.Context, payload string) (*WorkItemDetails, error) {
	response, err := g.llm.Complete(ctx, llm.Request{
		Operation:   "analyze",
		Prompt:      fmt.Sprintf(promptWorkItemAnalyzer, payload),
		MaxTokens:   g.gen.MaxTokens,
		Temperature: g.gen.Temperature,
	})
	if err != nil {
		return nil, classifyLLMError(err)
	}

	details, err := ParseWorkItemDetails(response)
	if err != nil {
		return nil, errors.NewAnalysisParseError(err.Error())
	}
	return details, nil
}

// planQueries produces the documentation queries for a work item. Planning
// failures degrade to an empty plan; the pipeline then composes from the
// work-item details alone.
func (g *Generator) planQueries(ctx context.Context, details *WorkItemDetails) []string {
	response, err := g.llm.Complete(ctx, llm.Request{
		Operation:   "plan",
		Prompt:      fmt.Sprintf(promptQueryPlanner, details.ToJSON()),
		MaxTokens:   g.gen.MaxTokens,
		Temperature: g.gen.Temperature,
	})
	if err != nil {
		g.logger.Warn("query planning failed", map[string]interface{}{"error": err.Error()})
		return nil
	}

	queries, err := ParseQueries(response)
	if err != nil {
		g.logger.Warn("query parsing failed", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return queries
}

func (g *Generator) synthesizeImpact(ctx context.Context, searchContext, shortDescription string) string {
	impact, err := g.llm.Complete(ctx, llm.Request{
		Operation:   "synthesize",
		Prompt:      fmt.Sprintf(promptImpactSynthesizer, searchContext, shortDescription),
		MaxTokens:   g.gen.MaxTokens,
		Temperature: g.gen.Temperature,
	})
	if err != nil {
		g.logger.Warn("impact synthesis failed", map[string]interface{}{"error": err.Error()})
		return impactUndetermined
	}
	return impact
}

// composeNotes produces the release note variants. The primary variant is
// always composed; the grounded variant is added when the internal index is
// in play but never blocks the primary path, and the without-keywords variant
// is either the terminology-resolved note or an alias of the primary.
func (g *Generator) composeNotes(
	ctx context.Context,
	in Input,
	details *WorkItemDetails,
	searchContext string,
	impact string,
	scope string,
) (map[string]string, error) {
	notes := map[string]string{}

	if in.UseInternalDoc {
		grounded, err := g.llm.Complete(ctx, llm.Request{
			Operation:      "compose-grounded",
			Prompt:         promptNoteComposerGrounded,
			AdditionalInfo: impact,
			UseSearch:      true,
			Scope:          scope,
			MaxTokens:      g.gen.MaxTokens,
			Temperature:    g.gen.Temperature,
		})
		if err != nil {
			g.logger.Warn("grounded note composition failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			notes[NoteVariantGrounded] = stripMarkdownFences(grounded)
		}
	}

	primary, err := g.llm.Complete(ctx, llm.Request{
		Operation:   "compose",
		Prompt:      fmt.Sprintf(promptNoteComposer, details.ToJSON(), searchContext),
		MaxTokens:   g.gen.MaxTokens,
		Temperature: g.gen.Temperature,
	})
	if err != nil {
		return nil, classifyLLMError(err)
	}

	primary = stripMarkdownFences(primary)
	notes[NoteVariantPrimary] = primary
	if in.RemoveInternalKeywords {
		notes[NoteVariantWithoutKeywords] = g.removeInternalKeywords(ctx, primary, scope)
	} else {
		notes[NoteVariantWithoutKeywords] = primary
	}
	return notes, nil
}

func classifyLLMError(err error) *errors.StandardError {
	if stderrors.Is(err, llm.ErrTimeout) {
		return errors.NewLLMTimeoutError()
	}
	if stderrors.Is(err, llm.ErrService) || stderrors.Is(err, llm.ErrEmptyCompletion) {
		return errors.NewLLMServiceError(err)
	}
	return errors.NewGenerationFailedError(err)
}

func observeStage(stage string, d time.Duration) {
	metrics.PipelineStageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func stripMarkdownFences(s string) string {
	s = strings.ReplaceAll(s, "```markdown", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.Trim(strings.TrimSpace(s), "\n")
}
