package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/singnet/snet-converter-services/internal/middleware"
	"github.com/singnet/snet-converter-services/internal/response"
	"github.com/singnet/snet-converter-services/internal/server"
	"github.com/singnet/snet-converter-services/internal/validation"
)

// Handler is the base handler type that holds shared application dependencies.
//
// Concrete handlers embed it (TokenAddressHandler, CatalogueHandler,
// HealthHandler) and pass it to Handle/HandleEnvelope, which is where the
// shared pipeline lives.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a bound, validated request
// and returns a result or an error.
//
// Req is typically a pointer type, e.g. *TokenAddressIDRequest, because
// Echo's Bind needs a pointer to populate fields.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful handler result.
type ResponseHandler interface {
	Handle(c echo.Context, result any) error

	// GetOperation names the handler type in logs.
	GetOperation() string
}

// JSONResponseHandler writes JSON responses with a fixed status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result any) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

// EnvelopeResponseHandler writes a response.Envelope using its own
// statusCode as the HTTP status.
type EnvelopeResponseHandler struct{}

func (h EnvelopeResponseHandler) Handle(c echo.Context, result any) error {
	env, ok := result.(response.Envelope)
	if !ok {
		env = response.OK(result)
	}
	return c.JSON(env.StatusCode, env)
}

func (h EnvelopeResponseHandler) GetOperation() string {
	return "handler_envelope"
}

// handleRequest is the shared execution pipeline for all typed handlers:
// bind + validate, run, log timings, write the response.
// Errors are returned for the global error handler to format.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (any, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", c.Path()).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		logger.Error().
			Err(err).
			Dur("validation_duration", time.Since(validationStart)).
			Msg("request validation failed")
		return err
	}
	validationDuration := time.Since(validationStart)

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")
		return err
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed handler whose result is written as JSON with status.
// newReq is called once per request so requests never share state.
//
//	router.GET("/x", handler.Handle(h, fn, http.StatusOK, func() *MyReq { return &MyReq{} }))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleEnvelope wraps a handler that returns a service-layer envelope.
//
// Flow per request:
//   - newReq allocates a fresh request
//   - BindAndValidate fills it (path, query, or raw body) and validates it;
//     a failure goes to the global error handler as a 400 envelope
//   - the handler runs and returns the envelope built by the service
//   - EnvelopeResponseHandler writes it with its own statusCode
//
// Usage:
//
//	g.GET("/:id", handler.HandleEnvelope(base, th.Get, newIDRequest))
func HandleEnvelope[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, response.Envelope],
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (any, error) {
			return handler(c, req)
		}, EnvelopeResponseHandler{})
	}
}
