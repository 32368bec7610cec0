package common

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
)

// LoggingMiddleware logs every request at debug level and failures at
// error level, using the logger carried by the context or fallback
func LoggingMiddleware(fallback PlannerLogger) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		logger, ok := ctx.Value(loggerKey{}).(PlannerLogger)
		if !ok {
			if fallback == nil {
				return next(ctx, request)
			}
			logger = fallback
			ctx = WithLogger(ctx, logger)
		}

		name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
		start := time.Now()
		response, err := next(ctx, request)
		metadata := map[string]interface{}{
			"request":  name,
			"duration": time.Since(start).String(),
		}

		if err != nil {
			metadata["error"] = err.Error()
			logger.Log("ERROR", "Request failed", metadata)
			return nil, err
		}
		logger.Log("DEBUG", "Request handled", metadata)
		return response, nil
	}
}
