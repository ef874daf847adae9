// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"roam/internal/http/handlers"
	"roam/internal/http/middleware"
	"roam/internal/modules/convo"
	"roam/internal/modules/usage"
)

func NewRouter(
	convoService *convo.Service,
	usageService *usage.Service,
	logger *slog.Logger,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(logger), middleware.Recovery(), middleware.Auth())

	chatHandler := handlers.NewChatHandler(convoService, usageService)
	r.POST("/api/chat", chatHandler.Chat)

	sessionHandler := handlers.NewSessionHandler(convoService)
	r.GET("/api/sessions/:id/history", sessionHandler.History)
	r.GET("/api/sessions/:id/results", sessionHandler.Results)
	r.GET("/api/sessions/:id/suggest", sessionHandler.Suggest)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
