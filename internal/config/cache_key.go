package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// CourseEventsChannel returns the Redis PubSub channel carrying course changes.
func (r *CacheKeyStruct) CourseEventsChannel() string {
	return "courses:events"
}

// CourseEventsChannelFor returns the PubSub channel scoped to a single course.
func (r *CacheKeyStruct) CourseEventsChannelFor(courseID int) string {
	return fmt.Sprintf("courses:%d:events", courseID)
}

var CacheKey = NewCacheKeyStruct()
