package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xpanvictor/voxqa/internal/config"
	"github.com/xpanvictor/voxqa/internal/handlers"
	"github.com/xpanvictor/voxqa/internal/handlers/websocket"
	"github.com/xpanvictor/voxqa/pkg/Logger"

	_ "github.com/xpanvictor/voxqa/docs"
)

type Dependencies struct {
	TaskHandler      *handlers.TaskHandler
	WebSocketHandler *websocket.WebSocketHandler
	Logger           *Logger.Logger
}

func NewServerDependencies(
	taskHandler *handlers.TaskHandler,
	wsHandler *websocket.WebSocketHandler,
	logger *Logger.Logger,
) Dependencies {
	return Dependencies{
		TaskHandler:      taskHandler,
		WebSocketHandler: wsHandler,
		Logger:           logger,
	}
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.Use(handlers.ErrorHandlerMiddleware(dep.Logger))
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger))
	r.Use(handlers.CORSMiddleware(cfg.Server.CORSOrigins))
	r.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	dep.TaskHandler.RegisterRoutes(api)
	dep.WebSocketHandler.RegisterRoutes(api)
}
