package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kerem-kaynak/tunes/internal/appcontext"
	reqcontext "github.com/kerem-kaynak/tunes/internal/context"
	"github.com/kerem-kaynak/tunes/internal/services"
	"github.com/kerem-kaynak/tunes/internal/utils"
	"go.uber.org/zap"
)

func GetUserMusic(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		logger := reqcontext.Logger(c.Request.Context(), ctx.Logger).With(zap.String("user_id", userID))

		reqCtx := c.Request.Context()
		if ctx.RequestTimeout > 0 {
			var cancel context.CancelFunc
			reqCtx, cancel = context.WithTimeout(reqCtx, ctx.RequestTimeout)
			defer cancel()
		}

		tracks, err := ctx.Music.GetUserMusic(reqCtx, userID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, tracks)
		case errors.Is(err, utils.ErrInvalidIdentifier):
			logger.Warn("Rejected user id")
			c.String(http.StatusBadRequest, "%s", "Invalid user id.")
		case errors.Is(err, services.ErrNotFound):
			logger.Info("Music not found", zap.String("reason", string(services.NotFoundKindOf(err))))
			c.String(http.StatusNotFound, "%s", err.Error())
		default:
			logger.Error("Error occurred while fetching music data", zap.Error(err))
			message := "internal server error"
			if ctx.ExposeErrors {
				message = err.Error()
			}
			c.String(http.StatusInternalServerError, "Error: %s", message)
		}
	}
}

func Health(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := ctx.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			ctx.Logger.Error("Database ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
