package job

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/robfig/cron/v3"
)

const defaultMaxWorkers = 10

// Manager handles background job processing using River. The River
// client is created immediately, so jobs can be enqueued before Start().
type Manager struct {
	client   *river.Client[pgx.Tx]
	registry *taskRegistry
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager creates a new job manager with the given options.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}

	cfg := &config{registry: newTaskRegistry()}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	if cfg.maxWorkers == 0 {
		cfg.maxWorkers = defaultMaxWorkers
	}

	var periodicJobs []*river.PeriodicJob
	for _, sched := range cfg.schedules {
		cronSchedule, err := parseCronSchedule(sched.schedule)
		if err != nil {
			return nil, fmt.Errorf("job: invalid cron schedule %q: %w", sched.schedule, err)
		}

		periodicJobs = append(periodicJobs, river.NewPeriodicJob(
			cronSchedule,
			func() (river.JobArgs, *river.InsertOpts) {
				return &taskArgs{TaskName: sched.name}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		))

		cfg.registry.register(sched.name, &scheduledTaskExecutor{handler: sched.handler})
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &taskWorker{
		registry: cfg.registry,
		logger:   cfg.logger,
	})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.maxWorkers},
		},
		Workers:      workers,
		PeriodicJobs: periodicJobs,
		Logger:       cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		client:   client,
		registry: cfg.registry,
		logger:   cfg.logger,
	}, nil
}

// Start begins processing jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}

	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started", slog.Int("tasks", m.registry.size()))
	return nil
}

// Stop gracefully shuts down the job manager, waiting for running jobs.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}

	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Enqueue adds a job for a registered task to the queue.
func (m *Manager) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.registry.get(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	args, insertOpts, err := buildJobArgs(name, payload, opts...)
	if err != nil {
		return err
	}

	if _, err := m.client.Insert(ctx, args, insertOpts); err != nil {
		return fmt.Errorf("job: enqueue: %w", err)
	}
	return nil
}

// EnqueueTx adds a job within a transaction; the job becomes visible only
// after the transaction commits.
func (m *Manager) EnqueueTx(ctx context.Context, tx pgx.Tx, name string, payload any, opts ...EnqueueOption) error {
	if _, ok := m.registry.get(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	args, insertOpts, err := buildJobArgs(name, payload, opts...)
	if err != nil {
		return err
	}

	if _, err := m.client.InsertTx(ctx, tx, args, insertOpts); err != nil {
		return fmt.Errorf("job: enqueue tx: %w", err)
	}
	return nil
}

func buildJobArgs(name string, payload any, opts ...EnqueueOption) (*taskArgs, *river.InsertOpts, error) {
	var payloadBytes json.RawMessage
	if payload != nil {
		var err error
		payloadBytes, err = json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("job: marshal payload: %w", err)
		}
	}

	enqCfg := &enqueueConfig{}
	for _, opt := range opts {
		opt(enqCfg)
	}

	insertOpts := &river.InsertOpts{}
	if enqCfg.scheduledAt != nil {
		insertOpts.ScheduledAt = *enqCfg.scheduledAt
	}
	if enqCfg.maxAttempts > 0 {
		insertOpts.MaxAttempts = enqCfg.maxAttempts
	}

	return &taskArgs{TaskName: name, Payload: payloadBytes}, insertOpts, nil
}

// taskArgs is the single River job arguments type used for all tasks.
type taskArgs struct {
	TaskName string          `json:"task_name"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

func (taskArgs) Kind() string {
	return "app:task"
}

// taskWorker dispatches all jobs through the registry.
type taskWorker struct {
	river.WorkerDefaults[taskArgs]
	registry *taskRegistry
	logger   *slog.Logger
}

func (w *taskWorker) Work(ctx context.Context, job *river.Job[taskArgs]) error {
	executor, ok := w.registry.get(job.Args.TaskName)
	if !ok || executor == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTask, job.Args.TaskName)
	}

	if err := executor.Execute(ctx, job.Args.Payload); err != nil {
		w.logger.ErrorContext(ctx, "task failed",
			slog.String("task", job.Args.TaskName),
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

type cronScheduleAdapter struct {
	schedule cron.Schedule
}

func (a *cronScheduleAdapter) Next(current time.Time) time.Time {
	return a.schedule.Next(current)
}

func parseCronSchedule(expr string) (river.PeriodicSchedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, err
	}
	return &cronScheduleAdapter{schedule: schedule}, nil
}
