package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/middleware"
	"github.com/singnet/snet-converter-services/internal/server"
)

// healthCheckTimeout bounds the database check.
const healthCheckTimeout = 5 * time.Second

// databaseUnreachable is the only failure detail the public body carries.
// Driver errors name the host, user and database, so they stay in the log.
const databaseUnreachable = "database unreachable"

// HealthHandler exposes the endpoint monitors and load balancers use to
// verify the service is alive and the database is reachable.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns 200 when every check passes and 503 otherwise.
//
// The database check goes through the connection manager, so a closed
// connection is reopened here before it is pinged.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]any)
	response := map[string]any{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	dbStart := time.Now()
	err := h.pingDatabase(ctx)
	if err != nil {
		checks["database"] = map[string]any{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         databaseUnreachable,
		}

		logger.Error().
			Err(err).
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check failed")
	} else {
		checks["database"] = map[string]any{
			"status":        "healthy",
			"response_time": time.Since(dbStart).String(),
		}

		logger.Info().
			Dur("response_time", time.Since(dbStart)).
			Msg("database health check passed")
	}

	if err != nil {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Info().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	conn, err := h.server.DB.Connect(ctx)
	if err != nil {
		return err
	}
	return conn.Ping(ctx)
}
