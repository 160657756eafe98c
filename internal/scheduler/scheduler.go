// Package scheduler wires up the cron job that keeps job activation state
// converged: a daily sweep deactivates every posting whose end_date has
// passed. The same routine backs the admin "run now" trigger; the sweep is
// convergent, so overlapping runs are harmless.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"blankpoint/job-service/internal/lifecycle"
)

// sweepTimeout bounds one cleanup run.
const sweepTimeout = 5 * time.Minute

// expiringHorizonDays is the look-ahead for the post-sweep expiring-soon
// report.
const expiringHorizonDays = 7

// Scheduler wraps robfig/cron around the lifecycle service. Construct with
// New and drive with Start/Stop; there is no package-level instance.
type Scheduler struct {
	cron      *cron.Cron
	lifecycle *lifecycle.Service
	spec      string
	enabled   bool
}

// New creates a Scheduler that fires the cleanup daily at hour o'clock in
// loc. With enabled false, Start and Stop become no-ops and only the manual
// RunNow path remains.
func New(svc *lifecycle.Service, hour int, loc *time.Location, enabled bool) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc), cron.WithLogger(cron.DefaultLogger)),
		lifecycle: svc,
		spec:      fmt.Sprintf("0 %d * * *", hour),
		enabled:   enabled,
	}
}

// Spec returns the cron expression the cleanup is registered under.
func (s *Scheduler) Spec() string { return s.spec }

// Start registers the cleanup job and starts the scheduler.
func (s *Scheduler) Start() error {
	if !s.enabled {
		log.Println("[scheduler] Disabled via configuration — cleanup will only run on manual trigger")
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, s.runCleanup)
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — cleanup spec: %s", s.spec)
	return nil
}

// Stop shuts the scheduler down, waiting for an in-flight cleanup to finish.
func (s *Scheduler) Stop() {
	if !s.enabled {
		return
	}
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Cron stopped")
}

// RunNow triggers one cleanup on behalf of a caller (the admin endpoint) and
// surfaces any failure to it, unlike the scheduled path.
func (s *Scheduler) RunNow(ctx context.Context) (int, error) {
	log.Println("[scheduler] Manual cleanup triggered")
	return s.lifecycle.DeactivateExpired(ctx)
}

// runCleanup is the scheduled tick. Errors are logged and swallowed here so
// one failed sweep never takes the process down; the next tick is unaffected.
func (s *Scheduler) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	log.Println("[scheduler] Cleanup cycle started")

	count, err := s.lifecycle.DeactivateExpired(ctx)
	if err != nil {
		log.Printf("[scheduler] Cleanup error: %v", err)
		return
	}
	log.Printf("[scheduler] Cleanup complete — %d job(s) deactivated", count)

	expiring, err := s.lifecycle.CountExpiringSoon(ctx, expiringHorizonDays)
	if err != nil {
		log.Printf("[scheduler] Expiring-soon count error: %v", err)
		return
	}
	if expiring > 0 {
		log.Printf("[scheduler] %d job(s) expiring within %d days", expiring, expiringHorizonDays)
	}
}
