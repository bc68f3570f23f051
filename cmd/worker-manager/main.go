// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"release-note-workers/internal/common/cache"
	"release-note-workers/internal/common/camunda"
	"release-note-workers/internal/common/config"
	"release-note-workers/internal/common/logger"
	"release-note-workers/internal/common/observability"
	"release-note-workers/internal/llm"
	"release-note-workers/internal/releasenote"

	ch "release-note-workers/internal/workers/releasenote/clean-html"
	gn "release-note-workers/internal/workers/releasenote/generate-note"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer func() { _ = zapLog.Sync() }()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Replace the bootstrap logger with the configured one.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New("release-note-workers")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init Redis definition cache with retry (optional) ---
	var definitionCache releasenote.DefinitionCache
	var redisClient *cache.Client
	if cfg.Cache.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = cache.New(cfg.Cache)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		definitionCache = redisClient
		zapLog.Info("Redis connected successfully")
	} else {
		zapLog.Info("Definition cache disabled")
	}

	// --- Init pipeline dependencies ---
	llmClient := llm.NewClient(cfg.LLM, cfg.Search, log)
	generator := releasenote.New(llmClient, definitionCache, cfg.Search, cfg.Generation, log)
	zapLog.Info("Generation pipeline initialized")

	// --- Register workers ---
	var workers []*camunda.Worker

	if wcfg := config.GetWorkerConfig(cfg, gn.TaskType); wcfg.Enabled {
		handler := gn.NewHandler(gn.FromWorkerConfig(wcfg), generator, log)
		workers = append(workers, startWorker(zeebeClient, gn.TaskType, wcfg, handler.Handle, obs, zapLog))
	}

	if wcfg := config.GetWorkerConfig(cfg, ch.TaskType); wcfg.Enabled {
		handler := ch.NewHandler(ch.FromWorkerConfig(wcfg), log)
		workers = append(workers, startWorker(zeebeClient, ch.TaskType, wcfg, handler.Handle, obs, zapLog))
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			status := "ready"
			code := http.StatusOK
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				status = "not ready"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Stop()
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handlerFunc camunda.HandlerFunc, obs *observability.Observability, log *zap.Logger) *camunda.Worker {
	counted := func(jobClient worker.JobClient, job entities.Job) {
		handlerFunc(jobClient, job)
		obs.RecordJobProcessed(context.Background(), taskType)
	}

	return camunda.NewWorker(
		client,
		taskType,
		wcfg.MaxJobsActive,
		config.GetDuration(wcfg.Timeout),
		counted,
		log,
	)
}
