package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sling/roomhub/internal/config"
	"sling/roomhub/internal/handler/middleware"
	jwtpkg "sling/roomhub/pkg/jwt"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	jwtManager *jwtpkg.Manager,
	accountHandler *AccountHandler,
	roomHandler *RoomHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes. Room creation and joining are public: callers without
	// an account get a guest one.
	public := r.Group("/api/v1")
	{
		public.POST("/accounts/register", accountHandler.Register)
		public.POST("/accounts/login", accountHandler.Login)

		public.POST("/rooms", roomHandler.Create)
		public.POST("/rooms/join", roomHandler.Join)
		public.GET("/rooms/:id", roomHandler.Get)
		public.GET("/rooms/:id/participants", roomHandler.Participants)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtManager))
	{
		protected.GET("/accounts/me", accountHandler.Me)
		protected.PATCH("/accounts/me", accountHandler.UpdateField)
		protected.POST("/accounts/me/rotate-token", accountHandler.RotateToken)
		protected.DELETE("/accounts/me", accountHandler.Delete)
		protected.DELETE("/accounts/me/participant", accountHandler.DeleteParticipant)

		protected.PATCH("/rooms/:id", roomHandler.Rename)
		protected.DELETE("/rooms/:id", roomHandler.Delete)
		protected.POST("/rooms/:id/codes", roomHandler.MintCode)
		protected.POST("/rooms/leave", roomHandler.Leave)
	}

	return r
}
