package result

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// SummaryCache keeps per-student summaries in Redis so dashboard reads do not
// rescan the result history on every request. Entries are refreshed by the
// worker when new results arrive; the TTL bounds staleness if a refresh
// message is lost. A nil client degrades to computing on every call.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	sf     singleflight.Group
}

// NewSummaryCache creates a cache with the given entry TTL.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

// Get returns the cached summary for a student, computing and storing it on
// miss. Concurrent misses for the same student share one computation.
func (c *SummaryCache) Get(ctx context.Context, studentID string, compute func(ctx context.Context) (Summary, error)) (Summary, error) {
	if c == nil || c.client == nil {
		return compute(ctx)
	}

	if summary, ok := c.lookup(ctx, studentID); ok {
		return summary, nil
	}

	v, err, _ := c.sf.Do(studentID, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if summary, ok := c.lookup(ctx, studentID); ok {
			return summary, nil
		}
		summary, err := compute(ctx)
		if err != nil {
			return Summary{}, err
		}
		_ = c.Refresh(ctx, studentID, summary)
		return summary, nil
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

// Refresh overwrites the cached summary for a student.
func (c *SummaryCache) Refresh(ctx context.Context, studentID string, summary Summary) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(studentID), payload, c.ttl).Err()
}

// Invalidate drops the cached summary for a student.
func (c *SummaryCache) Invalidate(ctx context.Context, studentID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(studentID)).Err()
}

func (c *SummaryCache) lookup(ctx context.Context, studentID string) (Summary, bool) {
	payload, err := c.client.Get(ctx, c.key(studentID)).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var summary Summary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return Summary{}, false
	}
	return summary, true
}

func (c *SummaryCache) key(studentID string) string {
	return "student:" + studentID + ":summary"
}
