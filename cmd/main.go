package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"

	"hostcraft/internal/config"
	"hostcraft/internal/core/browser"
	"hostcraft/internal/core/content"
	"hostcraft/internal/core/extract"
	"hostcraft/internal/core/job"
	"hostcraft/internal/core/pipeline"
	"hostcraft/internal/core/report"
	"hostcraft/internal/core/snapshot"
	"hostcraft/internal/core/subscriber"
	"hostcraft/internal/core/synth"
	"hostcraft/internal/core/target"
	"hostcraft/internal/logger"
	"hostcraft/internal/platform/llm"
	rds "hostcraft/internal/platform/redis"
	tasks "hostcraft/internal/platform/tasks"
	"hostcraft/internal/server"
	"hostcraft/internal/worker"
)

func main() {
	cfg := config.Load()
	log.Printf("[hostcraft] starting at %s (env=%s)\n", cfg.HTTPAddr, cfg.AppEnv)

	logr := logger.New("main")

	// Redis client
	redisSvc, err := rds.New(rds.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer redisSvc.Close()

	// Asynq client and server
	taskClient := tasks.New(redisSvc)
	asynqServer := asynq.NewServer(redisSvc.AsynqRedisOpt(), asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	// Extraction stack
	sels := extract.DefaultSelectors()
	if cfg.SelectorsFile != "" {
		loaded, err := extract.LoadSelectors(cfg.SelectorsFile)
		if err != nil {
			log.Fatalf("selectors file %s: %v", cfg.SelectorsFile, err)
		}
		sels = loaded
	}
	browserMgr := browser.NewManager(cfg)
	extractSvc := extract.NewService(browserMgr, sels)

	// LLM synthesis from environment configuration
	llmSvc, err := llm.NewService(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.GeminiAPIKey,
		Model:    cfg.DefaultLLMModel,
	})
	if err != nil {
		log.Fatalf("failed to initialize LLM service: %v", err)
	}
	synthSvc := synth.NewService(llmSvc)

	// Pipeline and products
	snapshotSvc := snapshot.NewService(cfg)
	pipelineSvc := pipeline.NewService(extractSvc, synthSvc, snapshotSvc)
	targetSvc := target.NewService()
	subscriberStore := subscriber.NewRedisStore(redisSvc)
	contentSvc := content.NewService(pipelineSvc, targetSvc, subscriberStore)
	jobSvc := job.NewJobService(redisSvc)
	reportSvc := report.NewService(cfg, pipelineSvc, targetSvc, jobSvc, taskClient)

	// Worker mux
	mux := worker.NewMux()
	mux.HandleFunc(tasks.TaskTypeReport, reportSvc.HandleReportTask)

	go func() {
		if err := asynqServer.Start(mux.Mux()); err != nil {
			log.Printf("[worker] stopped: %v\n", err)
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Hostcraft Engine",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})
	// Serve saved artifacts (block snapshots) from DATA_DIR under /files
	app.Static("/files", cfg.DataDir)

	deps := server.Dependencies{
		Job:     jobSvc,
		Content: contentSvc,
		Reports: reportSvc,
		Redis:   redisSvc,
	}
	healthHandler := server.RegisterRoutes(app, deps)

	// Mark application as ready after all services are initialized
	go func() {
		time.Sleep(5 * time.Second) // Allow services to fully initialize
		healthHandler.SetReady()
	}()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		asynqServer.Shutdown()
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
