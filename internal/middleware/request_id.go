package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// RequestIDHeader is the HTTP header carrying the request correlation ID.
	// Load balancers and upstream services usually set X-Request-ID.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the Echo context key holding the ID. The context
	// enhancer copies it into the request-scoped logger as "request_id".
	RequestIDKey = "request_id"
)

// RequestID returns an Echo middleware that guarantees every request has a
// correlation ID.
//
// Behavior:
//   - An incoming X-Request-ID header is reused unchanged.
//   - Otherwise a random UUID is generated.
//   - The ID is stored in Echo context for handlers and the logger.
//   - The ID is written to the response header, so a client can quote it
//     when reporting a failed call.
//
// It must run before ContextEnhancer, which reads the stored ID.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Prefer the ID assigned upstream.
			requestID := c.Request().Header.Get(RequestIDHeader)

			if requestID == "" {
				requestID = uuid.New().String()
			}

			// Internal access (GetRequestID, ContextEnhancer).
			c.Set(RequestIDKey, requestID)

			// External access (clients, proxies, log pipelines).
			c.Response().Header().Set(RequestIDHeader, requestID)

			return next(c)
		}
	}
}

// GetRequestID reads the request ID from Echo context.
//
// It returns an empty string when the RequestID middleware did not run,
// for example in handler unit tests that build a bare echo.Context.
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
