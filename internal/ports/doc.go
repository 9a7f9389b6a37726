// Package ports holds the interfaces the todo service is wired through.
//
// TodoService is what the HTTP handlers call; internal/app implements it.
// TodoRepository is what the service calls; the memory and sqlite stores
// implement it. HealthChecker and HealthRegistry back the readiness endpoint.
package ports
