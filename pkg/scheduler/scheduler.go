package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"todo-back/pkg/logger"
)

// EventScheduler runs named cron jobs in the background.
type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	RemoveJob(id string) error
	GetJob(id string) (*JobInfo, bool)
	IsRunning() bool
}

type JobInfo struct {
	ID       string
	CronExpr string
	LastRun  *time.Time
	NextRun  *time.Time
}

type entry struct {
	job     *gocron.Job
	cron    string
	lastRun time.Time
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	log       *slog.Logger

	mu      sync.RWMutex
	entries map[string]*entry
	running bool
}

// NewEventScheduler evaluates cron expressions in UTC. A job never overlaps
// with its own previous run.
func NewEventScheduler() EventScheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &GocronScheduler{
		scheduler: s,
		log:       logger.Component("scheduler"),
		entries:   make(map[string]*entry),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.scheduler.StartAsync()
	s.running = true
	s.log.Info("Event scheduler started", "jobs", len(s.entries))
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.scheduler.Stop()
	s.running = false
	s.log.Info("Event scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(s.wrap(id, task))
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.entries[id] = &entry{job: job, cron: cronExpr}
	s.log.Info("Job added", "job_id", id, "cron", cronExpr, "next_run", job.NextRun().Format(time.RFC3339))
	return nil
}

// wrap records the run time and keeps a panicking job from killing the scheduler.
func (s *GocronScheduler) wrap(id string, task func()) func() {
	return func() {
		start := time.Now().UTC()

		s.mu.Lock()
		if e, ok := s.entries[id]; ok {
			e.lastRun = start
		}
		s.mu.Unlock()

		defer func() {
			if r := recover(); r != nil {
				s.log.Error("Scheduled job panicked", "job_id", id, "panic", r)
				return
			}
			s.log.Info("Scheduled job finished", "job_id", id, "took", time.Since(start).String())
		}()
		task()
	}
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	s.scheduler.RemoveByReference(e.job)
	delete(s.entries, id)
	s.log.Info("Job removed", "job_id", id)
	return nil
}

func (s *GocronScheduler) GetJob(id string) (*JobInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[id]
	if !exists {
		return nil, false
	}

	next := e.job.NextRun()
	info := &JobInfo{ID: id, CronExpr: e.cron, NextRun: &next}
	if !e.lastRun.IsZero() {
		last := e.lastRun
		info.LastRun = &last
	}
	return info, true
}

// ValidateCronExpression reports whether gocron accepts the expression.
func ValidateCronExpression(cronExpr string) error {
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Cron(cronExpr).Do(func() {}); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
