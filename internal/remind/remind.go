// Package remind reports the day's agenda on a cron schedule.
package remind

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"cloud.google.com/go/civil"
	"github.com/robfig/cron/v3"

	"github.com/dukerupert/cadence/internal/chore"
)

// LoadFunc builds the agenda as of today.
type LoadFunc func(today civil.Date) (chore.Agenda, error)

// NotifyFunc receives each agenda the scheduler builds.
type NotifyFunc func(today civil.Date, a chore.Agenda)

type Scheduler struct {
	cron   *cron.Cron
	clock  func() civil.Date
	load   LoadFunc
	notify NotifyFunc

	stopOnce sync.Once
	stopped  chan struct{}
}

// New registers one job under schedule, a standard five-field cron
// expression. The clock is consulted on every tick so a long-running
// scheduler rolls over to the next day.
func New(schedule string, clock func() civil.Date, load LoadFunc, notify NotifyFunc) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	s := &Scheduler{
		cron:    cron.New(cron.WithParser(parser), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		clock:   clock,
		load:    load,
		notify:  notify,
		stopped: make(chan struct{}),
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		if err := s.RunOnce(); err != nil {
			slog.Error("reminder failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce builds today's agenda and hands it to the notifier.
func (s *Scheduler) RunOnce() error {
	today := s.clock()
	a, err := s.load(today)
	if err != nil {
		return fmt.Errorf("load agenda: %w", err)
	}

	slog.Info("agenda built", "today", today, "items", len(a.Items), "remaining", a.Remaining)
	s.notify(today, a)
	return nil
}

// Start runs the scheduler until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()
}

// Stop waits for a running job to finish. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		<-s.cron.Stop().Done()
		close(s.stopped)
	})
}

// Done is closed once the scheduler has stopped.
func (s *Scheduler) Done() <-chan struct{} {
	return s.stopped
}

// Line formats a one-line reminder: how many to-dos are left today and which
// are overdue.
func Line(today civil.Date, a chore.Agenda) string {
	var overdue []string
	for _, it := range a.Items {
		if it.Status == chore.StatusOverdue {
			overdue = append(overdue, it.Title)
		}
	}

	line := fmt.Sprintf("%s: %d remaining today", today, a.Remaining)
	if len(overdue) > 0 {
		line += fmt.Sprintf(", %d overdue (%s)", len(overdue), strings.Join(overdue, ", "))
	}
	return line
}
