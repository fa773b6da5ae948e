package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shaiso/Shelfwise/internal/domain"
	"github.com/shaiso/Shelfwise/internal/pipeline"
)

type fakeRunner struct {
	runs int
}

func (f *fakeRunner) Run(context.Context, []domain.ItemKey) *pipeline.State {
	f.runs++
	return pipeline.NewState()
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

func TestNewRejectsInvalidCron(t *testing.T) {
	_, err := New(Config{Runner: &fakeRunner{}, Logger: testLogger(), CronExpr: "not a cron"})
	if err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestTickFiresOnlyWhenDue(t *testing.T) {
	runner := &fakeRunner{}
	s, err := New(Config{Runner: runner, Logger: testLogger(), CronExpr: "0 2 * * *"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	before := s.NextDue().Add(-time.Minute)
	if err := s.Tick(context.Background(), before); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if runner.runs != 0 {
		t.Fatalf("runs = %d before due time, want 0", runner.runs)
	}

	due := s.NextDue()
	if err := s.Tick(context.Background(), due); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if runner.runs != 1 {
		t.Fatalf("runs = %d at due time, want 1", runner.runs)
	}

	// Следующий запуск пересчитан вперёд.
	if !s.NextDue().After(due) {
		t.Errorf("NextDue = %s, want after %s", s.NextDue(), due)
	}

	// Повторный тик в то же время не запускает второй прогон.
	if err := s.Tick(context.Background(), due); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if runner.runs != 1 {
		t.Errorf("runs = %d after repeat tick, want 1", runner.runs)
	}
}

func TestCalculateNext(t *testing.T) {
	from := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	next, err := CalculateNext("0 2 * * *", from)
	if err != nil {
		t.Fatalf("CalculateNext: %v", err)
	}
	want := time.Date(2025, 6, 16, 2, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("next = %s, want %s", next, want)
	}
}
