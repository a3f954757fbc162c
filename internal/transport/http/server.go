package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "blogapi/internal/app"
	"blogapi/internal/bootstrap"
	"blogapi/internal/cache"
	"blogapi/internal/platform/rabbitmq"
	"blogapi/internal/repository"
	"blogapi/internal/transport/http/handler"
	"blogapi/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	articleRepo := repository.NewArticleRepository(app.MySQL)
	articleCache := cache.NewArticleCache(app.Redis, time.Duration(app.Config.Redis.ArticleTTLSeconds)*time.Second)
	eventPublisher := rabbitmq.NewArticleEventPublisher(app.MQConn, app.Config.RabbitMQ.EventAuditQueue)

	authService := appsvc.NewAuthService(
		userRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	articleService := appsvc.NewArticleService(articleRepo, articleCache, eventPublisher)
	userService := appsvc.NewUserService(userRepo, articleCache)

	authHandler := handler.NewAuthHandler(authService)
	articleHandler := handler.NewArticleHandler(articleService)
	userHandler := handler.NewUserHandler(userService)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	authGroup := router.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	articleGroup := router.Group("/article")
	articleGroup.GET("", articleHandler.List)
	articleGroup.GET("/:id", articleHandler.Read)
	articleGroup.POST("", authRequired, articleHandler.Create)
	articleGroup.PATCH("/:id", authRequired, articleHandler.Update)
	articleGroup.DELETE("/:id", authRequired, articleHandler.Delete)

	userGroup := router.Group("/user")
	userGroup.GET("", userHandler.List)
	userGroup.GET("/:id", userHandler.Get)
	userGroup.PATCH("/:id", authRequired, userHandler.Update)
	userGroup.DELETE("/:id", authRequired, userHandler.Delete)

	return router
}
