package appcontext

import (
	"time"

	"github.com/kerem-kaynak/tunes/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger

	Music *services.MusicService

	Addr           string
	Environment    string
	AllowedOrigins []string
	RequestTimeout time.Duration
	ExposeErrors   bool
}
