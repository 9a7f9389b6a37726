package middleware

import "net/http"

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// Chain folds mws into one Middleware. mws[0] sees the request first, so
//
//	Chain(Recovery(l), RequestID(), Logging(l))
//
// serves as Recovery(RequestID(Logging(h))). Nil entries are skipped, which
// lets callers leave optional stages such as RateLimit unset.
func Chain(mws ...Middleware) Middleware {
	stages := make([]Middleware, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			stages = append(stages, mw)
		}
	}

	return func(h http.Handler) http.Handler {
		for i := len(stages) - 1; i >= 0; i-- {
			h = stages[i](h)
		}
		return h
	}
}
