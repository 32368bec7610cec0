package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AraragiEro/kahuna-bot/internal/application/industry/services"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

func TestReportCache(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	cache := services.NewReportCache(time.Hour, clock)
	report := &services.ResolvedReport{PlanName: "a"}

	// Act
	cache.Put("user-1/a", report)
	got, hit := cache.Get("user-1/a")

	// Assert
	assert.True(t, hit)
	assert.Same(t, report, got)

	_, hit = cache.Get("user-1/b")
	assert.False(t, hit)

	clock.Advance(59 * time.Minute)
	_, hit = cache.Get("user-1/a")
	assert.True(t, hit)

	clock.Advance(time.Minute)
	_, hit = cache.Get("user-1/a")
	assert.False(t, hit, "entries expire once the ttl has elapsed")
}

func TestReportCache_Invalidate(t *testing.T) {
	// Arrange
	cache := services.NewReportCache(0, nil)
	cache.Put("user-1/a", &services.ResolvedReport{})

	// Act
	cache.Invalidate("user-1/a")

	// Assert
	_, hit := cache.Get("user-1/a")
	assert.False(t, hit)
}

func TestReportCache_InvalidateUserKeepsOtherUsers(t *testing.T) {
	// Arrange
	cache := services.NewReportCache(0, nil)
	cache.Put("user-1/a", &services.ResolvedReport{})
	cache.Put("user-1/b", &services.ResolvedReport{})
	cache.Put("user-10/a", &services.ResolvedReport{})

	// Act
	cache.InvalidateUser("user-1")

	// Assert
	_, hit := cache.Get("user-1/a")
	assert.False(t, hit)
	_, hit = cache.Get("user-1/b")
	assert.False(t, hit)
	_, hit = cache.Get("user-10/a")
	assert.True(t, hit)

	cache.Clear()
	_, hit = cache.Get("user-10/a")
	assert.False(t, hit)
}
