package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"codejourney-backend/internal/models"
	"codejourney-backend/internal/services"
)

const maxAttempts = 3

type courseStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	Update(ctx context.Context, c *models.Course) error
}

type metadataFetcher interface {
	GetVideoMetadata(ctx context.Context, videoURL string) (*services.VideoMetadata, error)
}

// Pool drains background jobs from Redis lists. Today the only job fills in course
// duration and description from the course's YouTube video.
type Pool struct {
	redis       *redis.Client
	courses     courseStore
	youtube     metadataFetcher
	events      *services.Events
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, courses courseStore, youtube metadataFetcher, events *services.Events, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		courses:     courses,
		youtube:     youtube,
		events:      events,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	queues := []string{jobQueueName(models.JobCourseEnrichment)}

	for i := 0; i < p.workerCount; i++ {
		go p.worker(i, queues)
	}

	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int, queues []string) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, queues...).Result()
		if err != nil {
			continue // Timeout or error, retry
		}

		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue // Another worker has this job
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.Type)

		if err := p.process(ctx, &job); err != nil {
			p.handleFailure(&job, err)
		} else {
			log.Printf("Job %s completed successfully", job.ID)
		}

		p.redis.Del(ctx, lockKey)
	}
}

func (p *Pool) process(ctx context.Context, job *models.Job) error {
	switch job.Type {
	case models.JobCourseEnrichment:
		return p.enrichCourse(ctx, job.ReferenceID)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

var errNothingToEnrich = errors.New("course has nothing to enrich")

// enrichCourse fills blanks only; values the user entered are never overwritten.
func (p *Pool) enrichCourse(ctx context.Context, courseID uuid.UUID) error {
	course, err := p.courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}

	if course.DurationHours > 0 && strings.TrimSpace(course.Description) != "" {
		return nil
	}
	if services.ExtractVideoID(course.YouTubeURL) == "" {
		return errNothingToEnrich
	}

	meta, err := p.youtube.GetVideoMetadata(ctx, course.YouTubeURL)
	if err != nil {
		return err
	}

	unlock := services.LockCourses()
	defer unlock()

	// Re-read under the lock; the row may have changed during the fetch.
	course, err = p.courses.GetByID(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to get course: %w", err)
	}

	changed := false
	if course.DurationHours == 0 && meta.DurationHours > 0 {
		course.DurationHours = meta.DurationHours
		changed = true
	}
	if strings.TrimSpace(course.Description) == "" && meta.Description != "" {
		course.Description = firstLine(meta.Description)
		changed = true
	}
	if !changed {
		return nil
	}

	course.UpdatedAt = time.Now().UTC()
	if err := p.courses.Update(ctx, course); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}

	p.events.Publish(ctx, "courses", course.ID)
	return nil
}

func (p *Pool) handleFailure(job *models.Job, err error) {
	if errors.Is(err, errNothingToEnrich) {
		log.Printf("Job %s skipped: %v", job.ID, err)
		return
	}

	job.RetryCount++
	if job.RetryCount >= maxAttempts {
		log.Printf("Job %s failed permanently: %v", job.ID, err)
		return
	}

	log.Printf("Job %s failed (attempt %d): %v, retrying", job.ID, job.RetryCount, err)
	jobBytes, _ := json.Marshal(job)
	backoff := time.Duration(1<<uint(job.RetryCount)) * time.Second
	time.AfterFunc(backoff, func() {
		p.redis.LPush(context.Background(), jobQueueName(job.Type), string(jobBytes))
	})
}

func jobQueueName(jobType string) string {
	return "queue:" + jobType
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
