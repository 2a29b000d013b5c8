package api

import (
	authUsecase "mailrag-backend/internal/auth/usecase"
	mailUsecasePkg "mailrag-backend/internal/mail/usecase"
	"mailrag-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	mailUsecase mailUsecasePkg.MailUsecase
	config      *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, mailUc mailUsecasePkg.MailUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase: authUc,
		mailUsecase: mailUc,
		config:      cfg,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.authUsecase, h.mailUsecase, h.config)

	return r.Run(addr)
}
