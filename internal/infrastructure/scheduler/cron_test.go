package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestCronSchedulerRunsJob(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewCronScheduler("@every 1s", time.UTC, nil)
	fired := make(chan time.Time, 1)
	err := s.Start(ctx, func(at time.Time) {
		select {
		case fired <- at:
		default:
		}
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	defer func() { _ = s.Stop(ctx) }()

	select {
	case at := <-fired:
		if at.Location() != time.UTC {
			t.Fatalf("expected UTC trigger time, got %v", at.Location())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("job did not fire")
	}
}

func TestCronSchedulerRejectsBadSpec(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("not a schedule", nil, nil)
	if err := s.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestCronSchedulerStopIsIdempotent(t *testing.T) {
	t.Parallel()

	s := NewCronScheduler("@every 1h", nil, nil)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("stop before start: %v", err)
	}
	if err := s.Start(context.Background(), nil); err != nil {
		t.Fatalf("start with nil job: %v", err)
	}
}
