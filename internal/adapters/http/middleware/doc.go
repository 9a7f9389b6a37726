// Package middleware holds the HTTP stages every todo API request passes
// through before it reaches a handler. main assembles them with Chain in
// this order:
//
//	Recovery, RequestID, CorrelationID, OpenTelemetry, Logging, RateLimit, Timeout
//
// Recovery is outermost so a panic anywhere below it still yields a
// problem+json 500. Logging sits inside the ID stages so its request
// logger, which the todo service picks up from the context, carries both
// IDs.
package middleware
