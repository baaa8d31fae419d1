package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/koreader-utils/quotescan/internal/harvest"
)

// Harvester runs one extraction-and-persist cycle.
type Harvester interface {
	Harvest() (harvest.Result, error)
}

// cronParser accepts standard five-field schedules.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// errStopped marks a context cancellation initiated by Stop itself, so the
// watcher goroutine can tell it apart from the parent context going away.
var errStopped = errors.New("scheduler stopped")

// ValidateSchedule checks that the given cron schedule is well-formed.
func ValidateSchedule(schedule string) error {
	_, err := cronParser.Parse(schedule)
	return err
}

// NextRunTime returns the next time the given schedule would fire.
func NextRunTime(schedule string) (time.Time, error) {
	spec, err := cronParser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return spec.Next(time.Now()), nil
}

// RescanScheduler periodically re-harvests the library so the quote store
// keeps up with new highlights without a manual trigger.
type RescanScheduler struct {
	harvester Harvester
	schedule  string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelCauseFunc
}

// NewRescanScheduler creates a scheduler that runs the harvester on the
// given cron schedule.
func NewRescanScheduler(harvester Harvester, schedule string) *RescanScheduler {
	return &RescanScheduler{
		harvester: harvester,
		schedule:  schedule,
		cron:      cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler.
func (s *RescanScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runHarvest()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule rescan job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancelCause(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(s.schedule)
	log.Printf("Rescan scheduler: started with schedule '%s'. Next run: %v", s.schedule, nextRun)

	go func() {
		<-cancelCtx.Done()
		if errors.Is(context.Cause(cancelCtx), errStopped) {
			return
		}
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running harvest to
// complete.
func (s *RescanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	s.isRunning = false
	s.cancelFunc(errStopped)
	s.cancelFunc = nil

	log.Printf("Rescan scheduler: stopped")
}

// Reschedule restarts the scheduler with a new cron schedule. Call after a
// settings change.
func (s *RescanScheduler) Reschedule(schedule string) error {
	s.mu.Lock()
	wasRunning := s.isRunning
	s.schedule = schedule
	s.mu.Unlock()

	if wasRunning {
		s.Stop()
	}
	return s.Start(context.Background())
}

// RunNow triggers an immediate harvest without waiting for the schedule.
func (s *RescanScheduler) RunNow() {
	go s.runHarvest()
}

// IsRunning returns whether the scheduler is active.
func (s *RescanScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next rescan will occur, or nil when the
// scheduler is not running.
func (s *RescanScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *RescanScheduler) runHarvest() {
	log.Printf("Rescan: starting harvest")
	startTime := time.Now()

	result, err := s.harvester.Harvest()
	if err != nil {
		log.Printf("Rescan: harvest failed (found %d): %v", result.Found, err)
		return
	}

	duration := time.Since(startTime)
	if result.Found == 0 {
		log.Printf("Rescan: no quotes found (%v)", duration.Round(time.Millisecond))
		return
	}
	log.Printf("Rescan: saved %d quotes in %v", result.Found, duration.Round(time.Millisecond))
}
