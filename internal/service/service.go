// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It validates raw payloads, performs business operations, calls
// repository methods and returns response envelopes; handlers only
// transport them.
package service
