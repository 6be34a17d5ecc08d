// Boxoffice - Movie Revenue Modeling Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxoffice

package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordStage tests stage duration and error recording
func TestRecordStage(t *testing.T) {
	tests := []struct {
		name      string
		stage     string
		err       error
		wantError bool
	}{
		{name: "successful stage", stage: "test_ok", err: nil, wantError: false},
		{name: "failed stage", stage: "test_fail", err: errors.New("boom"), wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(StageErrors.WithLabelValues(tt.stage))
			RecordStage(tt.stage, 25*time.Millisecond, tt.err)
			after := testutil.ToFloat64(StageErrors.WithLabelValues(tt.stage))

			delta := after - before
			if tt.wantError && delta != 1 {
				t.Errorf("StageErrors delta = %v, want 1", delta)
			}
			if !tt.wantError && delta != 0 {
				t.Errorf("StageErrors delta = %v, want 0", delta)
			}
		})
	}
}

func TestRecordRecords(t *testing.T) {
	before := testutil.ToFloat64(RecordsProcessed.WithLabelValues("test_load", "read"))
	RecordRecords("test_load", "read", 12)
	RecordRecords("test_load", "read", 0)
	RecordRecords("test_load", "read", -3)
	after := testutil.ToFloat64(RecordsProcessed.WithLabelValues("test_load", "read"))

	if after-before != 12 {
		t.Errorf("RecordsProcessed delta = %v, want 12", after-before)
	}
}

func TestRecordFoldFit(t *testing.T) {
	scored := FoldFits.WithLabelValues("test_knn", "scored")
	degenerate := FoldFits.WithLabelValues("test_knn", "degenerate")
	s0, d0 := testutil.ToFloat64(scored), testutil.ToFloat64(degenerate)

	RecordFoldFit("test_knn", time.Millisecond, false)
	RecordFoldFit("test_knn", time.Millisecond, false)
	RecordFoldFit("test_knn", time.Millisecond, true)

	if got := testutil.ToFloat64(scored) - s0; got != 2 {
		t.Errorf("scored delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(degenerate) - d0; got != 1 {
		t.Errorf("degenerate delta = %v, want 1", got)
	}
}

func TestGauges(t *testing.T) {
	SetBestCVRMSE("test_rf", 1234.5)
	if got := testutil.ToFloat64(BestCVRMSE.WithLabelValues("test_rf")); got != 1234.5 {
		t.Errorf("BestCVRMSE = %v, want 1234.5", got)
	}

	SetTestMetrics(99, 0.75)
	if got := testutil.ToFloat64(TestRMSE); got != 99 {
		t.Errorf("TestRMSE = %v, want 99", got)
	}
	if got := testutil.ToFloat64(TestRSquared); got != 0.75 {
		t.Errorf("TestRSquared = %v, want 0.75", got)
	}

	MarkRunSuccess()
	if got := testutil.ToFloat64(LastRunSuccess); got <= 0 {
		t.Errorf("LastRunSuccess = %v, want > 0", got)
	}
}

func TestRecordCheckpoint(t *testing.T) {
	hits := CheckpointLookups.WithLabelValues("test_stage", "hit")
	misses := CheckpointLookups.WithLabelValues("test_stage", "miss")
	h0, m0 := testutil.ToFloat64(hits), testutil.ToFloat64(misses)

	RecordCheckpoint("test_stage", true)
	RecordCheckpoint("test_stage", false)
	RecordCheckpoint("test_stage", false)

	if got := testutil.ToFloat64(hits) - h0; got != 1 {
		t.Errorf("hit delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(misses) - m0; got != 2 {
		t.Errorf("miss delta = %v, want 2", got)
	}
}

// TestConcurrentRecording verifies helpers are safe from the tuning worker pool
func TestConcurrentRecording(t *testing.T) {
	counter := FoldFits.WithLabelValues("test_concurrent", "scored")
	before := testutil.ToFloat64(counter)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordFoldFit("test_concurrent", time.Microsecond, false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(counter) - before; got != 50 {
		t.Errorf("concurrent delta = %v, want 50", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: "boxoffice_test_gauge", Help: "test gauge"})
	reg.MustRegister(g)
	g.Set(3)

	path := filepath.Join(t.TempDir(), "nested", "boxoffice.prom")
	if err := WriteTextfileFrom(reg, path); err != nil {
		t.Fatalf("WriteTextfileFrom() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "boxoffice_test_gauge 3") {
		t.Errorf("textfile missing gauge line:\n%s", data)
	}
}

// TestMetricGathering lints the default registry
func TestMetricGathering(t *testing.T) {
	RecordStage("test_lint", time.Millisecond, nil)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}
