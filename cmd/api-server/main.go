package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/studytrack/studytrack/internal/auth"
	"github.com/studytrack/studytrack/internal/chapter"
	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/internal/health"
	internalprogress "github.com/studytrack/studytrack/internal/progress"
	"github.com/studytrack/studytrack/internal/store"
	"github.com/studytrack/studytrack/internal/subject"
	"github.com/studytrack/studytrack/internal/target"
	"github.com/studytrack/studytrack/internal/user"
	"github.com/studytrack/studytrack/internal/websocket"
	"github.com/studytrack/studytrack/pkg/config"
	"github.com/studytrack/studytrack/pkg/database"
	"github.com/studytrack/studytrack/pkg/logger"
	"github.com/studytrack/studytrack/pkg/metrics"
	"github.com/studytrack/studytrack/pkg/plan"
)

func main() {
	// Load environment variables from .env if present (optional)
	_ = godotenv.Load()

	// Initialize logger
	logLevel := logger.INFO
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		logLevel = logger.LogLevel(level)
	}
	jsonFormat := os.Getenv("LOG_FORMAT") == "json"
	logger.Init(logLevel, jsonFormat, os.Stdout)

	log := logger.GetLogger().WithContext("component", "api_server")
	log.Info("starting_api_server", "version", "1.0.0")

	// Initialize database
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/studytrack.db"
	}

	if err := database.InitDatabase(dbPath); err != nil {
		log.Error("failed_to_initialize_database", "error", err.Error(), "path", dbPath)
		os.Exit(1)
	}
	defer database.Close()

	// Get JWT secret from environment or use default (change in production!)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-this-in-production"
		log.Warn("using_default_jwt_secret", "message", "Set JWT_SECRET environment variable in production!")
	}

	//frontend URL from environment or use default
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
		log.Info("using_default_frontend_url", "url", frontendURL)
	}

	// Event hub for push notifications
	hub := events.NewHub(logger.WithContext("component", "event_hub"))
	hub.Start()
	defer hub.Stop()

	st := store.New(database.DB)
	clock := plan.SystemClock{}

	// Initialize handlers
	authHandler := auth.NewHandler(jwtSecret)
	subjectHandler := subject.NewHandler(st, hub, clock)
	chapterHandler := chapter.NewHandler(st, hub)
	progressHandler := internalprogress.NewHandler(st)
	targetHandler := target.NewHandler(st, hub, clock)
	userHandler := user.NewHandler(clock)
	healthHandler := health.NewHandler()
	metricsHandler := metrics.NewHandler()
	wsServer := websocket.NewServer(jwtSecret, hub)

	// Setup Gin router
	router := gin.Default()

	// CORS middleware configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{frontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{"Content-Length"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health and metrics endpoints
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)
	router.GET("/metrics", metricsHandler.Metrics)

	// Service discovery for clients on the local network
	servicesCfg := config.LoadServicesConfig()
	router.GET("/discovery", func(c *gin.Context) {
		c.JSON(200, servicesCfg.GetDiscoveryResponse())
	})

	// Progress event push channel (token authenticated in the query string)
	router.GET("/ws", wsServer.HandleWebSocket)
	router.GET("/ws/status", func(c *gin.Context) {
		users := wsServer.GetActiveUsers()
		c.JSON(200, gin.H{
			"active_users": users,
			"count":        len(users),
		})
	})

	// Auth routes (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}
	// Protected account routes
	protectedAuth := router.Group("/auth")
	protectedAuth.Use(auth.AuthMiddleware(jwtSecret, authHandler))
	{
		protectedAuth.POST("/logout", authHandler.Logout)
		protectedAuth.POST("/change-password", authHandler.ChangePassword)
	}

	// Subject routes (all protected)
	subjectGroup := router.Group("/subjects")
	subjectGroup.Use(auth.AuthMiddleware(jwtSecret, authHandler))
	{
		subjectGroup.GET("", subjectHandler.ListSubjects)            // List subjects, most recent first
		subjectGroup.POST("", subjectHandler.CreateSubjects)         // Batch create from comma-separated titles
		subjectGroup.GET("/:id", subjectHandler.GetSubject)          // Get subject by ID
		subjectGroup.PUT("/:id", subjectHandler.RenameSubject)       // Rename subject
		subjectGroup.POST("/:id/open", subjectHandler.OpenSubject)   // Record open, advances recency
		subjectGroup.DELETE("/:id", subjectHandler.DeleteSubject)    // Delete subject (non-cascading)
		subjectGroup.GET("/:id/chapters", chapterHandler.ListChapters)
		subjectGroup.POST("/:id/chapters", chapterHandler.CreateChapters)
		subjectGroup.GET("/:id/progress", progressHandler.SubjectProgress)
	}

	// Chapter routes (all protected)
	chapterGroup := router.Group("/chapters")
	chapterGroup.Use(auth.AuthMiddleware(jwtSecret, authHandler))
	{
		chapterGroup.PUT("/:id/completion", chapterHandler.SetCompletion) // Toggle completion
	}

	// Progress and target routes (all protected)
	progressGroup := router.Group("/progress")
	progressGroup.Use(auth.AuthMiddleware(jwtSecret, authHandler))
	{
		progressGroup.GET("/overview", progressHandler.Overview)
	}

	targetGroup := router.Group("/targets")
	targetGroup.Use(auth.AuthMiddleware(jwtSecret, authHandler))
	{
		targetGroup.POST("", targetHandler.CreateTarget) // Freeze pace and save
		targetGroup.GET("", targetHandler.ListTargets)
	}

	// User routes (all protected)
	userGroup := router.Group("/users")
	userGroup.Use(auth.AuthMiddleware(jwtSecret, authHandler))
	{
		userGroup.GET("/me", userHandler.GetProfile)
		userGroup.GET("/greeting", userHandler.Greeting)
	}

	// Get port from environment or use default
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		log.Info("starting_api_server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed_to_start_api_server", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting_down_api_server")
	wsServer.Broadcaster().SendSystemBroadcast("Server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server_shutdown_failed", "error", err.Error())
	}
}
