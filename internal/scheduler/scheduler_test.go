package scheduler_test

import (
	"testing"
	"time"

	"blankpoint/job-service/internal/scheduler"
)

func TestNew_SpecFromHour(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "0 0 * * *"},
		{3, "0 3 * * *"},
		{23, "0 23 * * *"},
	}
	for _, c := range cases {
		s := scheduler.New(nil, c.hour, time.UTC, true)
		if got := s.Spec(); got != c.want {
			t.Errorf("Spec(hour=%d) = %q, want %q", c.hour, got, c.want)
		}
	}
}

func TestDisabledScheduler_StartStopNoOp(t *testing.T) {
	s := scheduler.New(nil, 0, time.UTC, false)
	if err := s.Start(); err != nil {
		t.Fatalf("Start on disabled scheduler should be a no-op, got %v", err)
	}
	// Must return immediately rather than waiting on a never-started cron.
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop on disabled scheduler blocked")
	}
}

func TestEnabledScheduler_StartStop(t *testing.T) {
	s := scheduler.New(nil, 4, time.UTC, true)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
