package api

import (
	"net/http"

	"mailrag-backend/internal/auth/delivery"
	authUsecase "mailrag-backend/internal/auth/usecase"
	mailDelivery "mailrag-backend/internal/mail/delivery"
	mailUsecase "mailrag-backend/internal/mail/usecase"
	"mailrag-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, mailUsecase mailUsecase.MailUsecase, cfg *config.Config) {
	authHandler := delivery.NewAuthHandler(authUsecase)
	mailHandler := mailDelivery.NewMailHandler(mailUsecase)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/imap", authHandler.IMAPLogin)
			auth.POST("/register", authHandler.Register)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
		}

		// Mail ingestion routes (protected)
		mail := api.Group("/mail")
		mail.Use(delivery.AuthMiddleware(authUsecase))
		{
			mail.POST("/ingest", mailHandler.Ingest)
			mail.GET("/runs", mailHandler.ListRuns)
			mail.POST("/watch", mailHandler.Watch)
			mail.DELETE("/index", mailHandler.ClearIndex)
		}

		// Search routes (protected)
		search := api.Group("/search")
		search.Use(delivery.AuthMiddleware(authUsecase))
		{
			search.POST("/semantic", mailHandler.SemanticSearch)
			search.POST("/answer", mailHandler.Answer)
		}
	}
}
