package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"codejourney-backend/internal/models"
)

const (
	TrackerUpdatesChannel = "tracker_updates"
	summaryCacheKey       = "analytics:summary"
	summaryGenKey         = "analytics:summary:gen"
	reminderSentKey       = "streak_reminder_last_sent"
)

// Events fans tracker changes out through Redis. A nil *Events, or one without a
// Redis client, only delivers in-process.
type Events struct {
	redis    *redis.Client
	cacheTTL time.Duration
	local    func(data []byte)
}

func NewEvents(redisClient *redis.Client, cacheTTL time.Duration) *Events {
	return &Events{redis: redisClient, cacheTTL: cacheTTL}
}

// OnLocal registers a receiver used when no Redis client is configured.
func (e *Events) OnLocal(fn func(data []byte)) {
	if e != nil {
		e.local = fn
	}
}

// Publish announces that resource changed. Any change also drops the cached summary.
func (e *Events) Publish(ctx context.Context, resource string, id uuid.UUID) {
	if e == nil {
		return
	}
	e.InvalidateSummary(ctx)

	data, _ := json.Marshal(models.WSMessage{
		Type:    models.WSTrackerUpdated,
		Payload: models.TrackerUpdate{Resource: resource, ID: id},
	})

	if e.redis == nil {
		if e.local != nil {
			e.local(data)
		}
		return
	}
	if err := e.redis.Publish(ctx, TrackerUpdatesChannel, string(data)).Err(); err != nil {
		log.Printf("events: failed to publish %s update: %v", resource, err)
	}
}

func (e *Events) Enqueue(ctx context.Context, jobType string, referenceID uuid.UUID) bool {
	if e == nil || e.redis == nil {
		return false
	}
	job := models.Job{ID: uuid.New(), Type: jobType, ReferenceID: referenceID, CreatedAt: time.Now().UTC()}
	data, _ := json.Marshal(job)
	if err := e.redis.LPush(ctx, "queue:"+jobType, string(data)).Err(); err != nil {
		log.Printf("events: failed to enqueue %s job for %s: %v", jobType, referenceID, err)
		return false
	}
	return true
}

// The summary cache is keyed by local day so a streak never outlives its date, and
// by generation so a summary computed across a write is never served. Every change
// bumps the generation; entries of older generations are left to expire.
func summaryKey(gen int64, day string) string {
	return fmt.Sprintf("%s:%d:%s", summaryCacheKey, gen, day)
}

// CachedSummary returns the cached summary for day, if any, and the generation the
// caller must pass to CacheSummary. Read it before loading the summary's data.
func (e *Events) CachedSummary(ctx context.Context, day string) (*models.AnalyticsSummary, int64, bool) {
	if e == nil || e.redis == nil || e.cacheTTL <= 0 {
		return nil, -1, false
	}
	gen, err := e.redis.Get(ctx, summaryGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return nil, -1, false
	}
	raw, err := e.redis.Get(ctx, summaryKey(gen, day)).Bytes()
	if err != nil {
		return nil, gen, false
	}
	var summary models.AnalyticsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, gen, false
	}
	return &summary, gen, true
}

func (e *Events) CacheSummary(ctx context.Context, gen int64, day string, summary models.AnalyticsSummary) {
	if e == nil || e.redis == nil || e.cacheTTL <= 0 || gen < 0 {
		return
	}
	data, _ := json.Marshal(summary)
	e.redis.Set(ctx, summaryKey(gen, day), data, e.cacheTTL)
}

func (e *Events) InvalidateSummary(ctx context.Context) {
	if e == nil || e.redis == nil {
		return
	}
	if err := e.redis.Incr(ctx, summaryGenKey).Err(); err != nil {
		log.Printf("events: failed to invalidate summary cache: %v", err)
	}
}

// ReminderSentOn returns the local date the last streak reminder went out, if Redis
// remembers one.
func (e *Events) ReminderSentOn(ctx context.Context) string {
	if e == nil || e.redis == nil {
		return ""
	}
	day, _ := e.redis.Get(ctx, reminderSentKey).Result()
	return day
}

func (e *Events) MarkReminderSent(ctx context.Context, day string) {
	if e == nil || e.redis == nil {
		return
	}
	e.redis.Set(ctx, reminderSentKey, day, 48*time.Hour)
}
