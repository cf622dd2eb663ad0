package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/academia-backend/internal/config"
)

// CourseEventType names a change to a course or its schedules.
type CourseEventType string

const (
	EventCourseSaved     CourseEventType = "course.saved"
	EventCourseDeleted   CourseEventType = "course.deleted"
	EventScheduleChanged CourseEventType = "schedule.changed"
)

// CourseEvent is the payload published on the course change feed.
type CourseEvent struct {
	ID       string          `json:"id"`
	Type     CourseEventType `json:"type"`
	CourseID int             `json:"course_id"`
	At       time.Time       `json:"at"`
}

// NewCourseEvent stamps a new event with a fresh id and the current time.
func NewCourseEvent(t CourseEventType, courseID int) CourseEvent {
	return CourseEvent{
		ID:       uuid.New().String(),
		Type:     t,
		CourseID: courseID,
		At:       time.Now().UTC(),
	}
}

// EventPublisher delivers course change events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event CourseEvent) error
}

// NewEventPublisher returns a Redis publisher, or a no-op one when rdb is nil.
func NewEventPublisher(rdb *redis.Client) EventPublisher {
	if rdb == nil {
		return NopPublisher{}
	}
	return &RedisPublisher{rdb: rdb}
}

// RedisPublisher publishes on the global course channel and on the
// per-course channel.
type RedisPublisher struct {
	rdb *redis.Client
}

func (p *RedisPublisher) Publish(ctx context.Context, event CourseEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal course event: %w", err)
	}

	pipe := p.rdb.Pipeline()
	pipe.Publish(ctx, config.CacheKey.CourseEventsChannel(), payload)
	pipe.Publish(ctx, config.CacheKey.CourseEventsChannelFor(event.CourseID), payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish course event: %w", err)
	}
	return nil
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, CourseEvent) error { return nil }

// notify publishes best effort. A failed publish never fails the change
// that caused it.
func notify(ctx context.Context, pub EventPublisher, log zerolog.Logger, t CourseEventType, courseID int) {
	if err := pub.Publish(ctx, NewCourseEvent(t, courseID)); err != nil {
		log.Warn().Err(err).Str("event", string(t)).Int("course_id", courseID).Msg("Failed to publish course event")
	}
}
