package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/attendee-dev/attendee/monitoring"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func registerMiddlewares(e *echo.Echo) {
	e.Use(middleware.CORSWithConfig(
		middleware.CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     middleware.DefaultCORSConfig.AllowHeaders,
			AllowMethods:     middleware.DefaultCORSConfig.AllowMethods,
			AllowCredentials: true,
		},
	))

	e.Use(logger())

	e.Use(recovermiddleware())

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		// do the logging straight inside the error handler
		// this keeps controller methods clean
		slog.Error(err.Error(), "method", ctx.Request().Method, "path", ctx.Request().URL)

		if ctx.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(http.StatusInternalServerError)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}

		if ctx.Request().Method == http.MethodHead {
			if err := ctx.NoContent(code); err != nil {
				slog.Error("could not send error response", "error", err)
			}
			return
		}

		// every error leaves the api as {"error": <message>}
		if err := ctx.JSON(code, map[string]string{"error": message}); err != nil {
			slog.Error("could not send error response", "error", err)
		}
	}
}

func recovermiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) (returnErr error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}

					stack := make([]byte, 4<<10) // 4 KB
					length := runtime.Stack(stack, false)
					slog.Error("recovered from panic in handler", "err", err, "stack", string(stack[:length]))

					monitoring.RecoverAndAlert("panic in http handler", err)
					returnErr = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				}
			}()
			return next(ctx)
		}
	}
}

var E *echo.Echo

func Server() *echo.Echo {
	E = echo.New()
	E.HideBanner = true
	E.Logger.SetLevel(99)
	registerMiddlewares(E)
	return E
}
