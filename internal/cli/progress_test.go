package cli

import (
	"strings"
	"testing"
	"time"
)

func TestProgressWithETA_Update(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA()

	progress, eta := p.Update(0.2)
	if progress != 0.2 {
		t.Errorf("progress = %v, want 0.2", progress)
	}
	if eta != 0 {
		t.Errorf("no ETA is expected right after the start, got %v", eta)
	}

	// Out-of-order updates from concurrent workers are ignored.
	if progress, _ := p.Update(0.1); progress != 0.2 {
		t.Errorf("progress moved backwards to %v", progress)
	}
	if p.Progress() != 0.2 {
		t.Errorf("Progress() = %v, want 0.2", p.Progress())
	}
}

func TestProgressWithETA_GetETA(t *testing.T) {
	t.Parallel()
	p := &ProgressWithETA{progress: 0.5, progressRate: 0.1}
	if got := p.GetETA(); got != 5*time.Second {
		t.Errorf("GetETA() = %v, want 5s", got)
	}

	p = &ProgressWithETA{progress: 0.5, progressRate: 1e-9}
	if got := p.GetETA(); got != 24*time.Hour {
		t.Errorf("GetETA() = %v, want the 24h cap", got)
	}

	p = &ProgressWithETA{progress: 1, progressRate: 0.1}
	if got := p.GetETA(); got != 0 {
		t.Errorf("GetETA() = %v after completion, want 0", got)
	}
}

func TestProgressWithETA_RateFromElapsedTime(t *testing.T) {
	t.Parallel()
	start := time.Now().Add(-2 * time.Second)
	p := &ProgressWithETA{startTime: start, lastUpdate: start}
	_, eta := p.Update(0.5)
	// Half done after two seconds: about two seconds remain.
	if eta < time.Second || eta > 3*time.Second {
		t.Errorf("ETA = %v, want about 2s", eta)
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{42 * time.Second, "42s"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{3 * time.Minute, "3m"},
		{time.Hour + 15*time.Minute, "1h15m"},
		{2 * time.Hour, "2h"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.45, 90*time.Second, 20)
	if !strings.HasPrefix(got, " 45.00% [") || !strings.HasSuffix(got, "] ETA: 1m30s") {
		t.Errorf("unexpected bar %q", got)
	}
	if strings.Count(got, "█") != 9 {
		t.Errorf("expected 9 filled cells in %q", got)
	}
}
