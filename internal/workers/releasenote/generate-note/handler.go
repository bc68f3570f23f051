// internal/workers/releasenote/generate-note/handler.go
package generatenote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"release-note-workers/internal/common/errors"
	"release-note-workers/internal/common/logger"
	"release-note-workers/internal/common/metrics"
	"release-note-workers/internal/releasenote"
)

const (
	TaskType = "generate-release-note"
)

// Pipeline is the generation dependency of the worker.
type Pipeline interface {
	Generate(ctx context.Context, in releasenote.Input) (*releasenote.Result, error)
	GenerateBulk(ctx context.Context, payload string) (string, error)
}

type Handler struct {
	config       *Config
	pipeline     Pipeline
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, pipeline Pipeline, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		pipeline:     pipeline,
		errorHandler: errors.NewErrorHandler(log),
		logger: log.With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	if err := ValidateVariables(job.Variables); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job,
			errors.NewValidationError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := ValidateInput(input); err != nil {
		return nil, err
	}

	payload := input.PayloadString()

	if !input.Single {
		notes, err := h.pipeline.GenerateBulk(ctx, payload)
		if err != nil {
			return nil, err
		}
		return &Output{ReleaseNote: notes}, nil
	}

	result, err := h.pipeline.Generate(ctx, releasenote.Input{
		Single:                 true,
		Payload:                payload,
		Documentation:          input.Documentation,
		UseInternalDoc:         input.UseInternalDoc,
		RemoveInternalKeywords: input.RemoveInternalKeywords,
	})
	if err != nil {
		return nil, err
	}

	return &Output{
		ReleaseNote:  result.PrimaryNote(),
		ReleaseNotes: result.ReleaseNotes,
		Queries:      result.Queries,
		UserImpact:   result.UserImpact,
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":     job.Key,
		"noteLength": len(output.ReleaseNote),
	})
}

// Execute runs the worker logic directly, bypassing the job plumbing.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
