package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
)

// PrometheusMiddleware records duration and outcome of every request sent
// through the mediator. A nil collector disables it.
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := RequestName(request)
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordRequest(name, requestKind(name), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}

// RequestName strips the pointer and package prefix from a request type:
// "*commands.CreatePlanCommand" becomes "CreatePlanCommand"
func RequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func requestKind(name string) string {
	switch {
	case strings.HasSuffix(name, "Command"):
		return "command"
	case strings.HasSuffix(name, "Query"):
		return "query"
	}
	return "other"
}
