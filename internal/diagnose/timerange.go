package diagnose

import (
	"fmt"
	"time"

	"gwprobe/pkg/types"
)

// DefaultWindow is how far back the log scan reaches when no start
// time is given
const DefaultWindow = 15 * time.Minute

// Accepted timestamp layouts, tried in order
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Window is the log query time range
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow builds the query window from optional start/end strings.
// Defaults: end = now, start = end minus DefaultWindow. The start must
// precede the end.
func ParseWindow(startStr, endStr string, now time.Time) (Window, error) {
	end := now
	if endStr != "" {
		t, err := parseTime(endStr)
		if err != nil {
			return Window{}, fmt.Errorf("invalid end time %q: %w", endStr, err)
		}
		end = t
	}

	start := end.Add(-DefaultWindow)
	if startStr != "" {
		t, err := parseTime(startStr)
		if err != nil {
			return Window{}, fmt.Errorf("invalid start time %q: %w", startStr, err)
		}
		start = t
	}

	if !start.Before(end) {
		return Window{}, types.ErrInvalidTimeRange
	}

	return Window{Start: start, End: end}, nil
}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
