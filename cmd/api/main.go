package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/arjunmehta/shortlist-engine/docs" // swagger docs

	"github.com/arjunmehta/shortlist-engine/internal/config"
	"github.com/arjunmehta/shortlist-engine/internal/platform/auth"
	"github.com/arjunmehta/shortlist-engine/internal/platform/concurrency"
	httpPlatform "github.com/arjunmehta/shortlist-engine/internal/platform/http"
	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/internal/platform/postgres"
	"github.com/arjunmehta/shortlist-engine/internal/platform/redis"
	"github.com/arjunmehta/shortlist-engine/internal/platform/storage"

	cpRepo "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/repository"
	cpService "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/service"

	jmRepo "github.com/arjunmehta/shortlist-engine/modules/jobmatch/repository"
	jmService "github.com/arjunmehta/shortlist-engine/modules/jobmatch/service"

	embService "github.com/arjunmehta/shortlist-engine/modules/embedding/service"

	clfService "github.com/arjunmehta/shortlist-engine/modules/classifier/service"

	rpService "github.com/arjunmehta/shortlist-engine/modules/resumeparser/service"
	rpHandler "github.com/arjunmehta/shortlist-engine/modules/resumeparser/handler"

	slHandler "github.com/arjunmehta/shortlist-engine/modules/shortlist/handler"
	slRepo "github.com/arjunmehta/shortlist-engine/modules/shortlist/repository"
	slService "github.com/arjunmehta/shortlist-engine/modules/shortlist/service"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/getsentry/sentry-go"
)

// @title Shortlist Probability Engine API
// @version 1.0
// @description Fuses a candidate-strength classifier with a sentence-embedding job match score into a calibrated shortlist probability, with explanations and a what-if simulator.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@shortlist-engine.example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting shortlist probability engine",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
	)

	ctx := context.Background()

	pgClient, err := postgres.New(ctx, cfg.Database)
	if err != nil {
		appLogger.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer pgClient.Close()
	appLogger.Info("Connected to PostgreSQL")

	migrationsPath := "./migrations"
	if err := postgres.RunMigrations(ctx, cfg.Database, appLogger, migrationsPath); err != nil {
		appLogger.Fatal("Failed to run database migrations",
			zap.Error(err),
			zap.String("migrations_path", migrationsPath),
		)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis")

	var s3Client *storage.S3Client
	if cfg.S3.Endpoint != "" && cfg.S3.Bucket != "" {
		s3Client, err = storage.NewS3Client(cfg.S3)
		if err != nil {
			appLogger.Warn("Failed to initialize S3 client, resume uploads will skip original-file storage", zap.Error(err))
		} else {
			appLogger.Info("S3 client initialized", zap.String("bucket", cfg.S3.Bucket))
		}
	} else {
		appLogger.Info("S3 configuration not provided, resume uploads will skip original-file storage")
	}

	classifierBridge, err := clfService.NewBridge(ctx, appLogger, cfg.Classifier.ModelPath, time.Duration(cfg.Classifier.TimeoutMS)*time.Millisecond)
	if err != nil {
		appLogger.Fatal("Failed to start classifier worker", zap.Error(err))
	}

	embeddingBridge, err := embService.NewBridge(ctx, appLogger, cfg.Embedding.ModelID, time.Duration(cfg.Embedding.TimeoutMS)*time.Millisecond)
	if err != nil {
		appLogger.Fatal("Failed to start embedding worker", zap.Error(err))
	}
	embeddingSvc := embService.NewService(embeddingBridge, appLogger, cfg.Embedding.CacheDisabled)

	resumeParserBridge := rpService.NewBridge(cfg.Parser.Path, time.Duration(cfg.Parser.TimeoutMS)*time.Millisecond, appLogger)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			appLogger.Warn("Failed to initialize Sentry, error reporting disabled", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
			appLogger.Info("Sentry error reporting initialized")
		}
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	router.Use(httpPlatform.RequestIDMiddleware())
	router.Use(httpPlatform.LoggerMiddleware(appLogger))
	router.Use(httpPlatform.CORSMiddleware())

	if cfg.Server.Env != "production" {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		appLogger.Info("Swagger UI available at /swagger/index.html")
	}

	router.GET("/health", healthCheckHandler(ctx, pgClient, redisClient))
	router.GET("/ping", pingHandler)

	jwtManager := auth.NewJWTManager(cfg.JWT.AccessSecret)
	authMiddleware := auth.AuthMiddleware(jwtManager)

	// Repositories
	profileRepository := cpRepo.NewProfileRepository(pgClient.Pool)
	resumeSnapshotRepository := cpRepo.NewResumeSnapshotRepository(pgClient.Pool)
	jobRepository := jmRepo.NewJobRepository(pgClient.Pool)
	predictionRepository := slRepo.NewPredictionRepository(pgClient.Pool)
	whatIfRepository := slRepo.NewWhatIfRepository(pgClient.Pool)

	// Services
	profileBuilder := cpService.NewProfileBuilder(profileRepository, resumeSnapshotRepository, appLogger)
	jobFetcher := jmService.NewJobFetcher(jobRepository, appLogger)
	uploadService := rpService.NewUploadService(resumeParserBridge, resumeSnapshotRepository, s3Client, appLogger)

	predictionPool := concurrency.NewPredictionPool(cfg.Prediction.PoolSize, time.Duration(cfg.Prediction.QueueTimeoutMS)*time.Millisecond)
	orchestrator := slService.NewOrchestrator(profileBuilder, jobFetcher, embeddingSvc, classifierBridge, predictionRepository, predictionPool, appLogger)
	simulator := slService.NewSimulator(orchestrator, embeddingSvc, whatIfRepository)
	batchPredictor := slService.NewBatchPredictor(orchestrator, appLogger)

	// Handlers
	resumeUploadHdl := rpHandler.NewResumeUploadHandler(uploadService)
	predictHdl := slHandler.NewPredictHandler(orchestrator, simulator, batchPredictor)
	whatIfHdl := slHandler.NewWhatIfHandler(simulator)
	historyHdl := slHandler.NewHistoryHandler(predictionRepository)

	api := router.Group("/api")
	{
		resumeUploadHdl.RegisterRoutes(api, authMiddleware)
		predictHdl.RegisterRoutes(api, authMiddleware)
		whatIfHdl.RegisterRoutes(api, authMiddleware)
		historyHdl.RegisterRoutes(api, authMiddleware)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	appLogger.Info("Server exited")
}

// healthCheckHandler godoc
// @Summary Health Check
// @Description Check the health status of the application and its dependencies
// @Tags system
// @Produce json
// @Success 200 {object} http.HealthResponse
// @Router /health [get]
func healthCheckHandler(ctx context.Context, pgClient *postgres.Client, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		services := make(map[string]string)

		if err := pgClient.Health(ctx); err != nil {
			services["postgres"] = "down"
		} else {
			services["postgres"] = "up"
		}

		if err := redisClient.Health(ctx); err != nil {
			services["redis"] = "down"
		} else {
			services["redis"] = "up"
		}

		httpPlatform.RespondWithHealth(c, services)
	}
}

// pingHandler godoc
// @Summary Ping
// @Description Simple ping endpoint to check if the API is responding
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func pingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
