package mediator

import "context"

// Request is a plan command or query. Handlers are looked up by its
// concrete pointer type.
type Request interface{}

// Response is whatever the matching handler returns
type Response interface{}

// RequestHandler serves one request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to the dispatch chain
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

// Middleware runs around every dispatch. The planner chains user scoping,
// request logging and Prometheus timing this way.
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
