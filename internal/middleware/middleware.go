// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request correlation, request logging, panic recovery
// and the final translation of errors into response envelopes.
package middleware
