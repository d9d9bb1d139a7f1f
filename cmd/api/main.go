package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"ocean-report/internal/config"
	apihttp "ocean-report/internal/http"
	"ocean-report/internal/llm"
	"ocean-report/internal/media"
	"ocean-report/internal/metrics"
	"ocean-report/internal/narrative"
	"ocean-report/internal/questionnaire"
	"ocean-report/internal/sampler"
	"ocean-report/internal/service"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	key, err := cfg.ScoringKey()
	if err != nil {
		logger.Fatal("invalid scoring key", zap.Error(err))
	}
	if cfg.SessionSecret == "" {
		logger.Fatal("SESSION_SECRET is required")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.MustNewMetrics(registry)

	var narrator *narrative.Generator
	if cfg.LLMAPIKey != "" {
		llmClient := llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, narrative.Instructions, logger)
		narrator = narrative.NewGenerator(llmClient, logger)
	} else {
		logger.Warn("llm api key not configured, reports will carry an error note instead of a narrative")
		narrator = narrative.NewGenerator(nil, logger)
	}

	var limiter service.RateLimiter = service.NewMemoryRateLimiter(cfg.ReportRateWindow(), cfg.ReportRateMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisRateLimiter(redisClient, cfg.ReportRateWindow(), cfg.ReportRateMax)
		}
		cancel()
	}

	codec := questionnaire.NewTokenCodec(cfg.SessionSecret, cfg.SessionTTL())
	assessSvc := service.NewAssessmentService(codec, key, m, logger)
	reportSvc := service.NewReportService(key, narrator, service.MediaConfig{
		ValencePath: cfg.ValencePath(),
		ArousalPath: cfg.ArousalPath(),
		VideoPath:   cfg.VideoPath(),
		Prober:      &media.LocalProber{Binary: cfg.FFprobePath},
		Extractor:   &media.FrameExtractor{Binary: cfg.FFmpegPath},
	}, sampler.NewSampler(cfg.SampleCount, sampler.NewRand(cfg.SampleSeed), logger), limiter, m, logger)

	router := apihttp.NewRouter(
		logger,
		apihttp.NewAssessmentHandler(logger, assessSvc),
		apihttp.NewReportHandler(logger, reportSvc),
		registry,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("media_dir", cfg.MediaDir))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
