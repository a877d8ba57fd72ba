package http

import (
	"github.com/gin-gonic/gin"

	"github.com/layer-3/rangda/ports"
	"github.com/layer-3/rangda/service"
)

// SetupRouter sets up the Gin router
func SetupRouter(authService *service.AuthService, limiter ports.RateLimiter) *gin.Engine {
	router := gin.Default()

	handlers := NewAuthHandlers(authService)

	auth := router.Group("/auth")
	{
		auth.POST("/nonce", handlers.Nonce)
		auth.POST("/verify", RateLimitMiddleware(limiter), handlers.Verify)
		auth.POST("/email", handlers.RequestEmail)
		auth.GET("/confirm/:user/:ts/:hash", handlers.ConfirmEmail)
		auth.POST("/username", handlers.ChooseUsername)
	}

	api := router.Group("/api")
	api.Use(SessionMiddleware(authService))
	{
		api.GET("/me", handlers.Me)
	}

	return router
}
