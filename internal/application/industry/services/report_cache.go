package services

import (
	"strings"
	"sync"
	"time"

	"github.com/AraragiEro/kahuna-bot/internal/adapters/metrics"
	"github.com/AraragiEro/kahuna-bot/internal/domain/shared"
)

// DefaultReportTTL is how long a resolved report is served from cache
const DefaultReportTTL = time.Hour

type cachedReport struct {
	report   *ResolvedReport
	storedAt time.Time
}

// ReportCache keeps the last report per plan key for a bounded time
type ReportCache struct {
	entries sync.Map
	ttl     time.Duration
	clock   shared.Clock
}

// NewReportCache creates a cache. A non-positive ttl uses DefaultReportTTL.
func NewReportCache(ttl time.Duration, clock shared.Clock) *ReportCache {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ReportCache{ttl: ttl, clock: clock}
}

// Get returns a fresh report for key
func (c *ReportCache) Get(key string) (*ResolvedReport, bool) {
	value, ok := c.entries.Load(key)
	if !ok {
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	entry := value.(cachedReport)
	if c.clock.Now().Sub(entry.storedAt) >= c.ttl {
		c.entries.Delete(key)
		metrics.RecordCacheLookup(false)
		return nil, false
	}
	metrics.RecordCacheLookup(true)
	return entry.report, true
}

// Put stores report under key
func (c *ReportCache) Put(key string, report *ResolvedReport) {
	c.entries.Store(key, cachedReport{report: report, storedAt: c.clock.Now()})
}

// Invalidate drops the report stored under key
func (c *ReportCache) Invalidate(key string) {
	c.entries.Delete(key)
}

// InvalidateUser drops every report of userID's plans
func (c *ReportCache) InvalidateUser(userID string) {
	prefix := userID + "/"
	c.entries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
		}
		return true
	})
}

// Clear drops every cached report
func (c *ReportCache) Clear() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
}
