package cli

import (
	"fmt"
	"time"
)

// ProgressWithETA tracks the completed fraction of a long-running task and
// estimates the time remaining from the rate of progress.
type ProgressWithETA struct {
	progress     float64
	startTime    time.Time
	lastUpdate   time.Time
	lastProgress float64
	progressRate float64 // smoothed progress per second
}

// NewProgressWithETA creates a new progress tracker started now.
func NewProgressWithETA() *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{startTime: now, lastUpdate: now}
}

// Progress returns the last recorded fraction.
func (p *ProgressWithETA) Progress() float64 {
	return p.progress
}

// Update records a new completed fraction and returns it with the ETA.
// Fractions that move backwards are ignored, since updates may arrive out of
// order from concurrent workers. The rate is exponentially smoothed.
//
// Parameters:
//   - value: The new progress value (0.0 to 1.0).
//
// Returns:
//   - progress: The current progress (0.0 to 1.0).
//   - eta: The estimated time remaining, or 0 if not yet known.
func (p *ProgressWithETA) Update(value float64) (progress float64, eta time.Duration) {
	if value > p.progress {
		p.progress = value
	}
	progress = p.progress

	now := time.Now()
	elapsed := now.Sub(p.startTime)

	if elapsed < 100*time.Millisecond || progress <= 0.001 {
		p.lastUpdate = now
		p.lastProgress = progress
		return progress, 0
	}

	if since := now.Sub(p.lastUpdate).Seconds(); since > 0.05 {
		if delta := progress - p.lastProgress; delta > 0 {
			instantRate := delta / since
			if p.progressRate > 0 {
				p.progressRate = 0.7*p.progressRate + 0.3*instantRate
			} else {
				p.progressRate = progress / elapsed.Seconds()
			}
		}
		p.lastUpdate = now
		p.lastProgress = progress
	}

	return progress, p.GetETA()
}

// GetETA returns the estimated time remaining at the current rate, capped
// at 24 hours, or 0 if no rate is known yet.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 || p.progress >= 1.0 {
		return 0
	}
	eta := time.Duration((1.0 - p.progress) / p.progressRate * float64(time.Second))
	if eta > 24*time.Hour {
		eta = 24 * time.Hour
	}
	return eta
}

// FormatETA formats a duration into a human-readable ETA string such as
// "< 1s", "42s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		minutes, seconds := int(eta.Minutes()), int(eta.Seconds())%60
		if seconds > 0 {
			return fmt.Sprintf("%dm%ds", minutes, seconds)
		}
		return fmt.Sprintf("%dm", minutes)
	}
	hours, minutes := int(eta.Hours()), int(eta.Minutes())%60
	if minutes > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dh", hours)
}

// FormatProgressBarWithETA renders "45.00% [████░░░░] ETA: 2m30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%6.2f%% [%s] ETA: %s", progress*100, progressBar(progress, width), FormatETA(eta))
}
