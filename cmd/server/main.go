package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"slateai/health-planner/internal/agent"
	"slateai/health-planner/internal/api"
	"slateai/health-planner/internal/catalog"
	"slateai/health-planner/internal/config"
	"slateai/health-planner/internal/llm"
	"slateai/health-planner/internal/repository/mongo"
	"slateai/health-planner/internal/service"
	"slateai/health-planner/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting Health Planner Server...")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment and config file.")
	}

	log.Println("---- DUMPING ALL ENVIRONMENT VARIABLES ----")
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		// Only print relevant ones or be careful with printing all in production logs if sensitive
		if strings.HasPrefix(pair[0], "JWT_") || strings.HasPrefix(pair[0], "S3_") || strings.HasPrefix(pair[0], "DATABASE_") || strings.HasPrefix(pair[0], "SERVER_") || strings.HasPrefix(pair[0], "CATALOG_") {
			log.Printf("ENV: %s = %s", pair[0], pair[1])
		}
	}
	log.Println("---- FINISHED DUMPING ENV VARS ----")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute) // Timeout for index creation
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsurePlanIndexes(ctx, appDB.Collection("workout_plans"))
		mongo.EnsureWorkoutLogIndexes(ctx, appDB.Collection("workout_logs"))
		mongo.EnsureMealLogIndexes(ctx, appDB.Collection("meal_logs"))
		log.Println("Index creation process completed.")
	}()

	// --- Load Plan Catalog ---
	log.Println("Loading plan catalog...")
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Printf("WARN: Could not load plan catalog from %s: %v (discovery falls back to database only)", cfg.Catalog.Path, err)
		cat = catalog.Empty()
	} else {
		log.Printf("Plan catalog loaded with %d plans.", cat.Len())
	}

	// --- Initialize Storage ---
	log.Println("Initializing backup storage service...")
	backupStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Printf("WARN: Failed to initialize S3 backup storage: %v (plan backups disabled)", err)
		backupStorage = nil
	}

	// --- Initialize LLM Pipeline ---
	log.Println("Initializing plan generation pipeline...")
	completer, err := llm.NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens, cfg.OpenAI.Temperature)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize LLM client: %v", err)
	}
	orchestrator := agent.NewOrchestrator(completer)

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)
	mealLogRepo := mongo.NewMongoMealLogRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	// Pass JWT config directly
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(orchestrator, planRepo, cat, backupStorage)
	logService := service.NewLogService(userRepo, workoutLogRepo, mealLogRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, logService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // plan generation runs a multi-stage LLM pipeline
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
