// Package job runs background work on top of River, a Postgres-backed
// job queue. Tasks are registered by name with JSON payloads; a single
// River worker dispatches to the registry. Periodic tasks are declared
// with standard 5-field cron expressions.
package job

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Errors.
var (
	ErrPoolRequired   = errors.New("job: database pool is required")
	ErrAlreadyStarted = errors.New("job: manager already started")
	ErrNotStarted     = errors.New("job: manager not started")
	ErrUnknownTask    = errors.New("job: unknown task")
	ErrInvalidPayload = errors.New("job: invalid task payload")
)

// taskExecutor is the internal interface for type-erased task execution.
type taskExecutor interface {
	Execute(ctx context.Context, payload json.RawMessage) error
}

type taskRegistry struct {
	executors map[string]taskExecutor
	mu        sync.RWMutex
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{executors: make(map[string]taskExecutor)}
}

func (r *taskRegistry) register(name string, executor taskExecutor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[name] = executor
}

func (r *taskRegistry) get(name string) (taskExecutor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	executor, ok := r.executors[name]
	return executor, ok
}

func (r *taskRegistry) size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.executors)
}

// taskWrapper adapts a typed task handler for type-erased storage.
type taskWrapper[P any, T interface {
	Name() string
	Handle(context.Context, P) error
}] struct {
	task T
}

func (w *taskWrapper[P, T]) Execute(ctx context.Context, raw json.RawMessage) error {
	var payload P
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return errors.Join(ErrInvalidPayload, err)
		}
	}
	return w.task.Handle(ctx, payload)
}

type scheduledTaskExecutor struct {
	handler func(context.Context) error
}

func (e *scheduledTaskExecutor) Execute(ctx context.Context, _ json.RawMessage) error {
	return e.handler(ctx)
}
