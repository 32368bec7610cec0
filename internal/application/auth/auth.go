package auth

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

type authContextKey int

const (
	userIDKey authContextKey = iota + 1000 // Offset from logger keys
)

// WithUserID injects the acting user into the context
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the acting user from the context
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}

// UserScopeMiddleware rejects user-scoped requests that carry no user and
// puts the user into the context. A request is user-scoped when it has a
// string UserID field. When the context already names a user (set by the
// transport) an empty UserID field is filled from it and a different one is
// rejected.
func UserScopeMiddleware() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		field, scoped := userIDField(request)
		if !scoped {
			return next(ctx, request)
		}

		caller, _ := UserIDFromContext(ctx)
		userID := strings.TrimSpace(field.String())

		switch {
		case userID == "" && caller == "":
			return nil, shared.NewValidationError("user_id", "required")
		case userID == "":
			if field.CanSet() {
				field.SetString(caller)
			}
			userID = caller
		case caller != "" && caller != userID:
			return nil, shared.NewUserInputError("user %s cannot act for user %s", caller, userID)
		}

		return next(WithUserID(ctx, userID), request)
	}
}

// userIDField finds the UserID field of a request by reflection
func userIDField(request mediator.Request) (reflect.Value, bool) {
	value := reflect.ValueOf(request)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return reflect.Value{}, false
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}

	field := value.FieldByName("UserID")
	if !field.IsValid() || field.Kind() != reflect.String {
		return reflect.Value{}, false
	}
	return field, true
}
