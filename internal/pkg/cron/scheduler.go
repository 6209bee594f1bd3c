package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Job represents a scheduled job. A nil Due runs the job on every tick.
type Job struct {
	Name     string
	Interval time.Duration
	Due      func(now time.Time) bool
	Fn       func(ctx context.Context, now time.Time) error
}

// Scheduler runs registered jobs on fixed intervals until stopped.
type Scheduler struct {
	jobs   []Job
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		jobs:   make([]Job, 0),
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job)
	slog.Info("Cron job registered", "name", job.Name, "interval", job.Interval)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(s.ctx, job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(s.ctx, job)
		}
	}
}

// executeJob runs job if it is due and reports whether it ran.
func (s *Scheduler) executeJob(ctx context.Context, job Job) bool {
	now := s.now()
	if job.Due != nil && !job.Due(now) {
		return false
	}

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(ctx, now); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
	return true
}

// RunOnce runs every due job once and returns the names of the jobs that ran.
func (s *Scheduler) RunOnce(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ran []string
	for _, job := range s.jobs {
		if s.executeJob(ctx, job) {
			ran = append(ran, job.Name)
		}
	}
	return ran
}

// DailyAt is due during the given local hour.
func DailyAt(hour int, loc *time.Location) func(time.Time) bool {
	return func(now time.Time) bool {
		return now.In(loc).Hour() == hour
	}
}

// MonthlyAt is due during the given local hour of the given day of the month.
func MonthlyAt(day, hour int, loc *time.Location) func(time.Time) bool {
	return func(now time.Time) bool {
		local := now.In(loc)
		return local.Day() == day && local.Hour() == hour
	}
}
