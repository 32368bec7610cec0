package common

import "context"

// PlannerLogger is the logging port of the application layer. Handlers and
// the resolver log through it and never import a logging library.
type PlannerLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

type loggerKey struct{}

// WithLogger returns ctx carrying logger
func WithLogger(ctx context.Context, logger PlannerLogger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFromContext returns the logger attached by WithLogger. Requests
// dispatched without one (unit tests, one-shot CLI calls) log nowhere.
func LoggerFromContext(ctx context.Context) PlannerLogger {
	if logger, ok := ctx.Value(loggerKey{}).(PlannerLogger); ok {
		return logger
	}
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Log(string, string, map[string]interface{}) {}
