package shared

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/attendee-dev/attendee/database"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/lmittmann/tint"
	"gorm.io/gorm"
)

type Server = *echo.Group
type MiddlewareFunc = echo.MiddlewareFunc
type Context = echo.Context
type DB = *gorm.DB

func SanitizeParam(s string) string {
	// remove trailing or leading slashes
	return strings.Trim(s, "/")
}

func DatabaseFactory() (DB, error) {
	pool := database.NewPgxConnPool(database.GetPoolConfigFromEnv())

	return database.NewGormDB(pool), nil
}

// InitLogger initializes the logger with a tint handler.
// tint is a simple logging library that allows to add colors to the log output.
// this is obviously not required, but it makes the logs easier to read.
func InitLogger() {
	// slog.HandlerOptions
	w := os.Stderr

	// set global logger with custom options
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		}),
	))
}

func LoadConfig() error {
	return godotenv.Load()
}

var V = validator.New()
