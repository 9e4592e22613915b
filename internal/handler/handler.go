// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It binds requests, runs the validation package on typed inputs,
// calls the service layer and writes the envelopes it returns.
package handler
