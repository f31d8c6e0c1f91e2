package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shashiranjanraj/genosys/pkg/workerpool"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := workerpool.New(4, 64)

	var done atomic.Int64
	for i := 0; i < 50; i++ {
		if !p.TrySubmit(func() { done.Add(1) }) {
			t.Fatalf("submit %d rejected with room in the queue", i)
		}
	}
	p.Stop()

	if got := done.Load(); got != 50 {
		t.Errorf("ran %d jobs, want 50", got)
	}
}

func TestTrySubmitDropsWhenFull(t *testing.T) {
	p := workerpool.New(1, 1)
	defer p.Stop()

	block := make(chan struct{})
	var release sync.Once
	defer release.Do(func() { close(block) })

	// Occupy the single worker, then fill the single queue slot.
	if !p.TrySubmit(func() { <-block }) {
		t.Fatal("first submit rejected")
	}
	// The worker may not have picked up the first job yet, so one or two
	// submits can still land. Saturation is reached within three.
	saturated := false
	for i := 0; i < 3; i++ {
		if !p.TrySubmit(func() {}) {
			saturated = true
			break
		}
	}
	if !saturated {
		t.Fatal("pool never reported a full queue")
	}

	release.Do(func() { close(block) })
}

func TestTrySubmitAfterStop(t *testing.T) {
	p := workerpool.New(2, 8)
	p.Stop()

	if p.TrySubmit(func() {}) {
		t.Error("submit accepted after Stop")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p := workerpool.New(2, 8)
	p.Stop()
	p.Stop() // must not panic
}

func TestPanickingJobDoesNotKillWorker(t *testing.T) {
	p := workerpool.New(1, 8)

	var done atomic.Int64
	p.TrySubmit(func() { panic("boom") })
	p.TrySubmit(func() { done.Add(1) })
	p.Stop()

	if done.Load() != 1 {
		t.Error("worker died after a panicking job")
	}
}
