package game

import (
	"fmt"
	"time"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FormatDuration formats a duration as MM:SS
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// AverageFPS derives frames per second from the mean tick delta. Ticks with a
// zero delta (the first after start or resume) are skipped.
func AverageFPS(stats []TickStats) float64 {
	var total time.Duration
	n := 0
	for _, s := range stats {
		if s.Delta > 0 {
			total += s.Delta
			n++
		}
	}
	if n == 0 || total <= 0 {
		return 0
	}
	return float64(n) / total.Seconds()
}

// LoadFactor is the share of the frame budget spent in the tick, in [0, 1].
func LoadFactor(s TickStats) float64 {
	if s.Delta <= 0 {
		return 0
	}
	return clamp01(float64(s.Cost) / float64(s.Delta))
}
