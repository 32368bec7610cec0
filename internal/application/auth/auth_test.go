package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AraragiEro/kahuna-bot/internal/application/auth"
	"github.com/AraragiEro/kahuna-bot/internal/application/mediator"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

type scopedRequest struct {
	UserID string
	Name   string
}

type globalRequest struct{}

func capture(seen *string) mediator.HandlerFunc {
	return func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		userID, err := auth.UserIDFromContext(ctx)
		if err == nil {
			*seen = userID
		}
		return "ok", nil
	}
}

func TestUserScopeMiddleware_InjectsRequestUser(t *testing.T) {
	// Arrange
	mw := auth.UserScopeMiddleware()
	var seen string

	// Act
	resp, err := mw(context.Background(), &scopedRequest{UserID: "user-1"}, capture(&seen))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "user-1", seen)
}

func TestUserScopeMiddleware_FillsUserFromContext(t *testing.T) {
	// Arrange
	mw := auth.UserScopeMiddleware()
	request := &scopedRequest{}
	var seen string

	// Act
	_, err := mw(auth.WithUserID(context.Background(), "user-2"), request, capture(&seen))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-2", request.UserID)
	assert.Equal(t, "user-2", seen)
}

func TestUserScopeMiddleware_RejectsMissingUser(t *testing.T) {
	// Arrange
	mw := auth.UserScopeMiddleware()
	var seen string

	// Act
	_, err := mw(context.Background(), &scopedRequest{UserID: "  "}, capture(&seen))

	// Assert
	var validation *shared.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "user_id", validation.Field)
	assert.Empty(t, seen)
}

func TestUserScopeMiddleware_RejectsActingForAnotherUser(t *testing.T) {
	// Arrange
	mw := auth.UserScopeMiddleware()
	var seen string

	// Act
	_, err := mw(auth.WithUserID(context.Background(), "user-1"), &scopedRequest{UserID: "user-2"}, capture(&seen))

	// Assert
	var input *shared.UserInputError
	require.True(t, errors.As(err, &input))
	assert.Empty(t, seen)
}

func TestUserScopeMiddleware_IgnoresUnscopedRequests(t *testing.T) {
	// Arrange
	mw := auth.UserScopeMiddleware()
	var seen string

	// Act
	resp, err := mw(context.Background(), &globalRequest{}, capture(&seen))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Empty(t, seen)
}
