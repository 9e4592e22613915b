package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/singnet/snet-converter-services/internal/errs"
	"github.com/singnet/snet-converter-services/internal/response"
	"github.com/singnet/snet-converter-services/internal/server"
	"github.com/singnet/snet-converter-services/internal/sqlerr"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
//
// They hold the server so they can read config and the root logger; none of
// them keeps per-request state.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// RequestLogger logs one "API" line per request.
//
// Level by final status:
//   - 5xx: error, with the handler error attached
//   - 4xx: warn
//   - everything else: info
//
// Because every envelope failure is a 400, most failed calls are logged at
// warn; only internal faults that escape the envelope reach error.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error the global error handler has not
			// written the response yet, so derive the status from the error.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				statusCode = classify(v.Error).StatusCode
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover turns handler panics into errors for GlobalErrorHandler.
//
// Echo's recover middleware captures the stack and returns it as an error,
// so a panic produces an "Internal Server Error" envelope instead of a
// dropped connection.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure adds the standard security headers (X-XSS-Protection,
// X-Content-Type-Options, X-Frame-Options).
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// classify maps any error reaching the HTTP layer to a response envelope.
//
// Mapping:
//   - *errs.HTTPError (validation, bind errors) -> its message
//   - echo 404 (unknown route) -> "Route not found"
//   - other echo errors (405, 413, ...) -> their message
//   - everything else -> sqlerr.HandleError, then the envelope rules
//
// Every envelope it returns is a failure, so StatusCode is 400 unless the
// message is the expired-token marker (403).
func classify(err error) response.Envelope {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return response.FromError(httpErr)
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if echoErr.Code == http.StatusNotFound {
			return response.Failure("Route not found")
		}
		if msg, ok := echoErr.Message.(string); ok {
			return response.Failure(msg)
		}
		return response.Failure(http.StatusText(echoErr.Code))
	}

	return response.FromError(sqlerr.HandleError(err))
}

// GlobalErrorHandler is the final error funnel for the HTTP server.
//
// Behavior:
//   - classify the error into an envelope
//   - log the original error with its stack (pkg/errors) and the status
//   - write the envelope with the envelope's statusCode as HTTP status,
//     unless a handler already committed a response
//
// Internal error text is logged only; the client sees the envelope message.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	env := classify(err)

	logger := *GetLogger(c)
	logger.Error().Stack().
		Err(err).
		Int("status", env.StatusCode).
		Msg(env.Message)

	if !c.Response().Committed {
		_ = c.JSON(env.StatusCode, env)
	}
}
