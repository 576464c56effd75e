package plan

import (
	"fmt"
	"math"
	"time"
)

// Clock abstracts wall-clock reads so pacing stays deterministic under test.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// InvalidTargetError is returned when a target date leaves no whole day to
// plan for.
type InvalidTargetError struct {
	TargetDate    time.Time
	DaysRemaining int
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("target date %s leaves no days remaining (%d)",
		e.TargetDate.Format("2006-01-02"), e.DaysRemaining)
}

// DaysRemaining is the number of whole days between now and the target date,
// rounded up.
func DaysRemaining(targetDate, now time.Time) int {
	return int(math.Ceil(targetDate.Sub(now).Hours() / 24))
}

// ComputeDailyTarget returns the chapters-per-day rate required to finish
// totalChapters by targetDate, as of now. The rate is real-valued; callers
// round for display. A target date in the past or within the current day is
// rejected rather than producing a non-finite or negative rate.
func ComputeDailyTarget(targetDate time.Time, totalChapters int, now time.Time) (float64, error) {
	days := DaysRemaining(targetDate, now)
	if days <= 0 {
		return 0, &InvalidTargetError{TargetDate: targetDate, DaysRemaining: days}
	}
	return float64(totalChapters) / float64(days), nil
}
