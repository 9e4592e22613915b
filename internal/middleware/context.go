package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/server"
)

// LoggerKey is the Echo context key holding the request-scoped
// *zerolog.Logger. Read it through GetLogger.
const LoggerKey = "logger"

// loggerContextKey keys the same logger inside context.Context. An
// unexported struct type cannot collide with keys from other packages.
type loggerContextKey struct{}

// ContextEnhancer builds a request-scoped logger and makes it available to
// every later layer.
//
// The logger is a child of the server logger with these fields:
//   - request_id: from the RequestID middleware
//   - method, path: the route pattern ("/token-pairs/:id"), not the raw URI
//   - ip: the client address as resolved by Echo (X-Forwarded-For aware)
//
// It is stored twice: in Echo context for handlers (GetLogger) and in the
// request's context.Context for services (LoggerFromContext).
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

// EnhanceContext returns the middleware. It must run after RequestID,
// otherwise request_id is logged empty.
func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			c.Set(LoggerKey, &contextLogger)

			// Services and repositories never see echo.Context, only the
			// request context, so the logger travels there too.
			ctx := context.WithValue(c.Request().Context(), loggerContextKey{}, &contextLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// GetLogger retrieves the request-scoped logger from Echo context.
//
// If EnhanceContext did not run (handler unit tests, a route registered
// outside the router) it returns a no-op logger, so callers never need a
// nil check.
func GetLogger(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}

// LoggerFromContext is GetLogger for code that only has a context.Context.
//
//	logger := middleware.LoggerFromContext(ctx)
//	logger.Debug().Str("id", id).Msg("token pair lookup")
//
// The no-op fallback applies here as well.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*zerolog.Logger); ok {
		return logger
	}

	logger := zerolog.Nop()
	return &logger
}
