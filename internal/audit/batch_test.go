package audit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/model"
)

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(7))
		if bp.concurrency != 7 {
			t.Errorf("expected concurrency 7, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0), WithBatchLogger(nil))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
		if bp.logger == nil {
			t.Error("expected non-nil logger")
		}
	})
}

// TestBatchProcessorProcessBatch tests batch processing.
func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	h := hasher.Default()

	t.Run("audits every digest in order", func(t *testing.T) {
		t.Parallel()

		setup := testSetup(t, nil)
		bp := NewBatchProcessor(func() *Pipeline { return StandardPipeline(setup) }, WithConcurrency(2))

		targets := []Target{
			{Label: "alice", Digest: h.Hash("password")},
			{Label: "bob", Digest: h.Hash("ba")},
			{Label: "carol", Digest: h.Hash("unguessable")},
			{Label: "dave", Digest: "broken"},
		}
		reports, err := bp.ProcessBatch(context.Background(), targets)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reports) != len(targets) {
			t.Fatalf("expected %d reports, got %d", len(targets), len(reports))
		}
		for i, r := range reports {
			if r == nil {
				t.Fatalf("report %d is nil", i)
			}
			if r.Label != targets[i].Label {
				t.Errorf("report %d: expected label %s, got %s", i, targets[i].Label, r.Label)
			}
		}
		if !reports[0].Cracked || !reports[1].Cracked || reports[2].Cracked {
			t.Errorf("unexpected crack pattern: %v %v %v", reports[0].Cracked, reports[1].Cracked, reports[2].Cracked)
		}
		if reports[3].Error == nil {
			t.Error("expected the malformed digest to fail")
		}

		s := model.Summarize(reports)
		if s.Cracked != 2 || s.Failed != 1 {
			t.Errorf("unexpected summary %+v", s)
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var current, peak atomic.Int32
		var mu sync.Mutex
		gate := make(chan struct{})

		factory := func() *Pipeline {
			p := New()
			p.AddStep(&mockStep{name: "slow", doFunc: func(context.Context, *model.AuditReport) error {
				n := current.Add(1)
				mu.Lock()
				if n > peak.Load() {
					peak.Store(n)
				}
				mu.Unlock()
				<-gate
				current.Add(-1)
				return nil
			}})
			return p
		}

		bp := NewBatchProcessor(factory, WithConcurrency(2))
		targets := make([]Target, 6)
		for i := range targets {
			targets[i] = Target{Digest: "d"}
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := bp.ProcessBatch(context.Background(), targets); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
		close(gate)
		<-done

		if peak.Load() > 2 {
			t.Errorf("expected at most 2 concurrent audits, saw %d", peak.Load())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		_, err := bp.ProcessBatch(ctx, []Target{{Digest: "a"}, {Digest: "b"}})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

// TestBatchProcessorProcessBatchWithCallback tests streaming results.
func TestBatchProcessorProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	h := hasher.Default()
	setup := testSetup(t, nil)
	bp := NewBatchProcessor(func() *Pipeline { return StandardPipeline(setup) })

	var mu sync.Mutex
	seen := map[int]*model.AuditReport{}
	targets := []Target{{Digest: h.Hash("hello")}, {Digest: h.Hash("aa")}}

	err := bp.ProcessBatchWithCallback(context.Background(), targets, func(r *model.AuditReport, i int) {
		mu.Lock()
		defer mu.Unlock()
		seen[i] = r
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("expected 2 callbacks, got %d", len(seen))
	}
	if seen[0].Plaintext != "hello" || seen[1].Plaintext != "aa" {
		t.Errorf("unexpected plaintexts %q %q", seen[0].Plaintext, seen[1].Plaintext)
	}
}
