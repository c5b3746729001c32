package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"iptvsite/internal/config"
	"iptvsite/internal/ratelimit"
	"iptvsite/internal/storage"
	"iptvsite/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type countingDeleter struct {
	calls atomic.Int32
	fail  bool
}

func (d *countingDeleter) DeleteStale(context.Context) (int64, error) {
	d.calls.Add(1)
	if d.fail {
		return 0, errors.New("db down")
	}
	return 2, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestResetCleanerRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	d := &countingDeleter{}
	m := telemetry.NewMetrics()

	StartResetCleaner(ctx, d, 10*time.Millisecond, m)
	waitFor(t, func() bool { return testutil.ToFloat64(m.ResetsDeleted) >= 4 })
	cancel()

	time.Sleep(30 * time.Millisecond)
	after := d.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if d.calls.Load() != after {
		t.Fatal("cleaner kept running after cancel")
	}
}

func TestResetCleanerSurvivesErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d := &countingDeleter{fail: true}

	StartResetCleaner(ctx, d, 5*time.Millisecond, nil)
	waitFor(t, func() bool { return d.calls.Load() >= 3 })
}

func TestNewLimiterPicksBackend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l, err := newLimiter(ctx, ctx, &config.Config{})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := l.(*ratelimit.Memory); !ok {
		t.Fatalf("want in-memory limiter, got %T", l)
	}

	mr := miniredis.RunT(t)
	l, err = newLimiter(ctx, ctx, &config.Config{RedisURL: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	r, ok := l.(*ratelimit.Redis)
	if !ok {
		t.Fatalf("want redis limiter, got %T", l)
	}
	_ = r.Close()
}

func TestNewStoreDefaultsToLocal(t *testing.T) {
	dir := t.TempDir()
	s, served, err := newStore(context.Background(), &config.Config{UploadDir: dir})
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, ok := s.(*storage.Local); !ok || served != dir {
		t.Fatalf("got %T serving %q", s, served)
	}
}

func TestRandomSecret(t *testing.T) {
	a, b := randomSecret(), randomSecret()
	if len(a) != 64 || a == b {
		t.Fatalf("secrets %q %q", a, b)
	}
}
