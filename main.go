// RCA 오케스트레이션 서버 엔트리포인트
//
// 기동 순서:
//  1. 설정 로드 (.env → 환경변수)
//  2. PostgreSQL 연결 + 벡터 컬렉션 준비
//  3. 외부 클라이언트 초기화 (Datadog / 임베딩 / LLM)
//  4. 코퍼스 인제스트 확인 (백그라운드, 이미 적재되어 있으면 skip)
//  5. HTTP 서버 기동

// @title RCA Orchestration API
// @version 1.0
// @description Automated root cause analysis pipeline for monitoring alerts
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	_ "github.com/rayne-rca/backend/docs"
	"github.com/rayne-rca/backend/internal/client"
	"github.com/rayne-rca/backend/internal/config"
	"github.com/rayne-rca/backend/internal/db"
	"github.com/rayne-rca/backend/internal/handler"
	"github.com/rayne-rca/backend/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Startup] No .env file found, using environment variables")
	}
	cfg := config.Load()

	ctx := context.Background()

	// PostgreSQL + 벡터 컬렉션
	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		log.Fatalf("[Startup] Failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	store := &db.Postgres{Pool: pool}

	if err := store.EnsureIncidentCollection(ctx); err != nil {
		log.Fatalf("[Startup] Failed to prepare incident collection: %v", err)
	}

	// 외부 클라이언트
	datadog := client.NewDatadogClient(cfg.Datadog)
	if !datadog.IsConfigured() {
		log.Printf("[Startup] Warning: Datadog API keys not configured, context collection will fail")
	}

	embedding, err := client.NewEmbeddingClient(cfg.Embedding)
	if err != nil {
		log.Fatalf("[Startup] Failed to create embedding client: %v", err)
	}

	llm, err := client.NewLLMGateway(cfg.LLM)
	if err != nil {
		log.Fatalf("[Startup] Failed to create LLM gateway: %v", err)
	}

	// 서비스 레이어
	lifecycleSvc := service.NewLifecycleService(datadog)
	pipeline := service.NewPipelineService(
		service.NewContextService(datadog),
		service.NewRetrievalService(embedding, store),
		service.NewSynthesisService(llm),
		service.NewPersistenceService(embedding, store),
		lifecycleSvc,
		service.NewExecutor(llm.Credentials()),
		datadog,
	)
	corpusSvc := service.NewCorpusService(cfg.Corpus.RootDir, store, embedding)

	// 코퍼스 인제스트는 기동을 막지 않도록 백그라운드로
	go func() {
		if err := corpusSvc.EnsureIngested(context.Background()); err != nil {
			log.Printf("[Startup] Corpus ingestion failed: %v", err)
		}
	}()

	// 라우팅
	router := gin.Default()
	router.Use(handler.CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/ping", handler.Ping)
	router.GET("/", handler.Root)
	router.GET("/openapi.json", handler.OpenAPIDoc)

	alertHandler := handler.NewAlertHandler(pipeline)
	investigationHandler := handler.NewInvestigationHandler(lifecycleSvc)
	corpusHandler := handler.NewCorpusHandler(corpusSvc)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/webhooks/alert", alertHandler.HandleAlert)
		v1.POST("/webhooks/recovery", alertHandler.HandleRecovery)
		v1.GET("/investigations", investigationHandler.ListInvestigations)
		v1.GET("/corpus/status", corpusHandler.CorpusStatus)

		admin := v1.Group("", handler.AdminAuthMiddleware(cfg.Admin.JWTSecret))
		admin.POST("/corpus/reingest", corpusHandler.Reingest)
	}

	log.Printf("[Startup] RCA orchestration server listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("[Startup] Server exited: %v", err)
	}
}
