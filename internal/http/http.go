package http

import (
	"github.com/gin-gonic/gin"
	"github.com/kerem-kaynak/tunes/internal/appcontext"
	"github.com/kerem-kaynak/tunes/internal/http/middleware"
)

type APIService struct {
	engine  *gin.Engine
	context *appcontext.Context
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestIDMiddleware(ctx.Logger))
	engine.Use(middleware.CORSMiddleware(ctx.Environment, ctx.AllowedOrigins))

	service := &APIService{
		engine:  engine,
		context: ctx,
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	h.engine.GET("/healthz", Health(h.context))

	api := h.engine.Group("/api")
	h.setupMusicRoutes(api)
}

func (h *APIService) setupMusicRoutes(group *gin.RouterGroup) {
	music := group.Group("/music")

	music.GET("/:userID", GetUserMusic(h.context))
}
