package middleware

import (
	"github.com/singnet/snet-converter-services/internal/server"
)

// Middlewares groups all middleware components used by the HTTP server,
// built once and reused during router setup.
type Middlewares struct {
	// Global holds request logging, recovery, secure headers and the
	// global error handler.
	Global *GlobalMiddlewares

	// ContextEnhancer attaches a request-scoped logger.
	ContextEnhancer *ContextEnhancer
}

func NewMiddlewares(s *server.Server) *Middlewares {
	return &Middlewares{
		Global:          NewGlobalMiddlewares(s),
		ContextEnhancer: NewContextEnhancer(s),
	}
}
