package job

import (
	"context"
	"log/slog"
	"time"
)

// config holds job manager configuration.
type config struct {
	registry   *taskRegistry
	logger     *slog.Logger
	schedules  []scheduleConfig
	maxWorkers int
}

type scheduleConfig struct {
	handler  func(context.Context) error
	name     string
	schedule string
}

// Option configures the job manager.
type Option func(*config)

// WithTask registers a task handler. The payload type P is inferred from
// the Handle method signature.
func WithTask[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}](task T) Option {
	return func(c *config) {
		c.registry.register(task.Name(), &taskWrapper[P, T]{task: task})
	}
}

// WithScheduledTask registers a periodic task. Schedule() must return a
// 5-field cron expression (min hour day month weekday).
func WithScheduledTask[T interface {
	Name() string
	Schedule() string
	Handle(context.Context) error
}](task T) Option {
	return func(c *config) {
		c.schedules = append(c.schedules, scheduleConfig{
			name:     task.Name(),
			schedule: task.Schedule(),
			handler:  task.Handle,
		})
	}
}

// WithLogger sets the logger for job processing.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers sets the maximum number of concurrent workers on the
// default queue. Defaults to 10.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// EnqueueOption configures job enqueueing.
type EnqueueOption func(*enqueueConfig)

type enqueueConfig struct {
	scheduledAt *time.Time
	maxAttempts int
}

// MaxAttempts caps retry attempts for the job. Defaults to River's
// default (25).
func MaxAttempts(n int) EnqueueOption {
	return func(c *enqueueConfig) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// ScheduledAt delays the job until the given time.
func ScheduledAt(t time.Time) EnqueueOption {
	return func(c *enqueueConfig) {
		c.scheduledAt = &t
	}
}
