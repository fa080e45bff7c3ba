package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/dislogroup/salesflow/config"
	"github.com/dislogroup/salesflow/internal/api/handlers"
	"github.com/dislogroup/salesflow/internal/api/middleware"
	"github.com/dislogroup/salesflow/internal/api/routes"
	"github.com/dislogroup/salesflow/internal/cache"
	"github.com/dislogroup/salesflow/internal/conversation"
	"github.com/dislogroup/salesflow/internal/logger"
	"github.com/dislogroup/salesflow/internal/providers/llm"
	"github.com/dislogroup/salesflow/internal/providers/nlp"
	mongorepo "github.com/dislogroup/salesflow/internal/repositories/mongo"
	pgrepo "github.com/dislogroup/salesflow/internal/repositories/postgres"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/storage"
	"github.com/dislogroup/salesflow/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")

	if err := config.MigrateAndSeed(); err != nil {
		log.WithError(err).Fatal("schema migration error")
	}

	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("Redis init error")
	}
	log.Info("Redis connected")

	if err := config.InitMongo(); err != nil {
		log.WithError(err).Fatal("MongoDB init error")
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.WithError(err).Fatal("MongoDB index error")
	}
	log.Info("MongoDB connected")

	ctx := context.Background()

	// repositories
	db := config.PostgresDB
	clientRepo := pgrepo.NewClientRepo(db)
	productRepo := pgrepo.NewProductRepo(db)
	orderRepo := pgrepo.NewOrderRepo(db)
	userRepo := pgrepo.NewUserRepo(db)
	promotionRepo := pgrepo.NewPromotionRepo(db)
	routeRepo := pgrepo.NewRouteRepo(db)
	stockRepo := pgrepo.NewStockRepo(db)
	visitRepo := pgrepo.NewVisitRepo(db)
	interactionRepo := mongorepo.NewInteractionRepo(config.MongoDatabase())

	// providers
	gemini := llm.NewGemini(os.Getenv("GEMINI_API_URL"), os.Getenv("GEMINI_API_KEY"))
	provider := llm.NewRetry(gemini, llm.DefaultAttempts, llm.DefaultBaseDelay)
	defer provider.Close()

	embedder := nlp.NewHTTPEmbedder(os.Getenv("EMBEDDING_URL"))
	redisCache := cache.NewRedisCache(config.RedisClient)
	embedQueue := workers.NewQueue(config.RedisClient, "")

	// domain services
	clientSvc := services.NewClientService(clientRepo, routeRepo)
	productSvc := services.NewProductService(productRepo, embedder, redisCache, embedQueue, log)
	orderSvc := services.NewOrderService(orderRepo)
	userSvc := services.NewUserService(userRepo)
	promotionSvc := services.NewPromotionService(promotionRepo)
	routeSvc := services.NewRouteService(routeRepo)
	stockSvc := services.NewStockService(stockRepo, productRepo, userRepo)
	visitSvc := services.NewVisitService(visitRepo)
	authSvc := services.NewAuthService(userRepo, os.Getenv("JWT_SECRET"))

	// AI pipeline
	store := conversation.NewStore(conversation.DefaultMaxTurns)
	assistantSvc := services.NewAssistantService(provider, store, services.GroundingSources{
		Products:   productSvc,
		Clients:    clientSvc,
		Orders:     orderSvc,
		Users:      userSvc,
		Promotions: promotionSvc,
		Routes:     routeSvc,
		Stocks:     stockSvc,
		Visits:     visitSvc,
	}, interactionRepo, log)
	intakeSvc := services.NewIntakeService(provider, clientSvc, productSvc, orderSvc, userSvc, interactionRepo, log)

	// background embedding
	pool := &workers.EmbeddingWorkerPool{
		Redis:    config.RedisClient,
		Products: productRepo,
		Embedder: embedder,
		Cache:    redisCache,
		Logger:   log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("embedding worker error")
	}

	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		u, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer u.Close()
		uploader = u
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		Assistant: handlers.NewAssistantHandler(assistantSvc, intakeSvc, interactionRepo),
		Search:    handlers.NewSearchHandler(productSvc),
		Chat:      handlers.NewChatHandler(assistantSvc),
		Client:    handlers.NewClientHandler(clientSvc, userSvc),
		Product:   handlers.NewProductHandler(productSvc, uploader),
		Order:     handlers.NewOrderHandler(orderSvc, userSvc),
		Promotion: handlers.NewPromotionHandler(promotionSvc),
		Route:     handlers.NewRouteHandler(routeSvc, userSvc),
		Stock:     handlers.NewStockHandler(stockSvc, userSvc),
		User:      handlers.NewUserHandler(userSvc),
		Visit:     handlers.NewVisitHandler(visitSvc, userSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server error")
	}
}
