/*
Copyright © 2025 danghm
*/
package cmd

import (
	"context"
	"log"

	"github.com/danghm/docqa-be/config"
	"github.com/danghm/docqa-be/database"
	"github.com/danghm/docqa-be/handler"
	"github.com/danghm/docqa-be/middleware"
	"github.com/danghm/docqa-be/repository"
	"github.com/danghm/docqa-be/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// startServerCmd represents the startServer command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the document Q&A server",
	Long:  `Starts the HTTP server exposing train, ask, search and chat endpoints`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		ctx := context.Background()
		embedder, aiService, err := buildAIStack(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize AI services: %v", err)
		}
		indexingService, weaviateDb, err := buildIndexingService(cfg, embedder)
		if err != nil {
			log.Fatalf("Failed to initialize indexing pipeline: %v", err)
		}
		retrievalService := service.NewRetrievalService(embedder, weaviateDb, cfg.TopK, cfg.ContextCharBudget)

		mongoClient, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		mongoDb := mongoClient.Database("docqa")

		userRepo := repository.NewUserRepo(mongoDb.Collection("users"))
		chatRepo := repository.NewChatRepo(mongoDb.Collection("messages"))

		userService := service.NewUserService(userRepo)
		qaService := service.NewQAService(retrievalService, aiService, chatRepo, cfg.MaxAnswerTokens)
		wsService := service.NewWebSocketService(qaService)

		corsHandler := handler.NewCorsHandler()
		trainHandler := handler.NewTrainHandler(indexingService, cfg.UploadDir)
		chatHandler := handler.NewChatHandler(qaService)
		searchHandler := handler.NewSearchHandler(retrievalService)
		loginHandler := handler.NewLoginHandler(userService)

		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		apiV1 := router.Group("/api/v1")
		apiV1.POST("/login", loginHandler.HandleLogin)

		userRoutes := apiV1.Group("/")
		userRoutes.Use(middleware.AuthMiddleware)
		{
			userRoutes.POST("/ask", chatHandler.HandleAsk)
			userRoutes.POST("/summarize", chatHandler.HandleSummarize)
			userRoutes.GET("/chats/:id/messages", chatHandler.HandleHistory)
			userRoutes.GET("/documents/search", searchHandler.HandleSearch)
		}

		router.GET("/ws/chat", func(c *gin.Context) {
			wsService.HandleChat(c.Writer, c.Request)
		})

		adminRoutes := router.Group("/admin/api/v1")
		adminRoutes.Use(middleware.AdminAuthMiddleware)
		{
			adminRoutes.POST("/train", trainHandler.HandleTrain)
		}

		log.Printf("Starting server on port %s...\n", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}
