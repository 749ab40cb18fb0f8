package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// PeakWindow is a locally-known congestion window in whole hours,
// covering [Start, End).
type PeakWindow struct {
	Start int
	End   int
}

// ParsePeakWindows parses "HH-HH" 24h window specs, e.g. "17-20".
func ParsePeakWindows(specs []string) ([]PeakWindow, error) {
	windows := make([]PeakWindow, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid peak window %q, want HH-HH", spec)
		}
		start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid peak window %q: %w", spec, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid peak window %q: %w", spec, err)
		}
		if start < 0 || start > 23 || end < 1 || end > 24 || start >= end {
			return nil, fmt.Errorf("peak window %q out of range", spec)
		}
		windows = append(windows, PeakWindow{Start: start, End: end})
	}
	return windows, nil
}

// TemporalScore is the fraction of an activity's ideal visiting window
// that falls outside peak-congestion hours. Activities without a
// declared window score a neutral 0.5.
func TemporalScore(peaks []PeakWindow, c Candidate) float64 {
	if c.VisitStart == 0 && c.VisitEnd == 0 {
		return 0.5
	}
	if c.VisitEnd <= c.VisitStart {
		return 0.5
	}

	total, offPeak := 0, 0
	for hour := c.VisitStart; hour < c.VisitEnd; hour++ {
		total++
		if !inPeak(peaks, hour) {
			offPeak++
		}
	}
	return float64(offPeak) / float64(total)
}

func inPeak(peaks []PeakWindow, hour int) bool {
	for _, w := range peaks {
		if hour >= w.Start && hour < w.End {
			return true
		}
	}
	return false
}
