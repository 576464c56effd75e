package progress

import "github.com/studytrack/studytrack/pkg/models"

// Stats holds the chapter counts for one subject. Percentage is always
// recomputed from the counts, never stored.
type Stats struct {
	Completed  int
	Total      int
	Percentage float64
}

// Aggregate derives completion stats from a subject's chapters. Safe to call
// on every read; an empty chapter list yields zero percent, not a division
// by zero.
func Aggregate(chapters []models.Chapter) Stats {
	s := Stats{Total: len(chapters)}
	for _, ch := range chapters {
		if ch.Completed {
			s.Completed++
		}
	}
	s.Percentage = Percentage(s.Completed, s.Total)
	return s
}

// Global sums completed and total counts elementwise across subjects and
// recomputes the percentage from the sums. Averaging per-subject percentages
// would bias the result toward small subjects, so it is never done.
func Global(subjects []models.SubjectProgress) (completed, total int, percentage float64) {
	for _, sp := range subjects {
		completed += sp.CompletedChapters
		total += sp.TotalChapters
	}
	return completed, total, Percentage(completed, total)
}

func Percentage(completed, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return 100.0 * float64(completed) / float64(total)
}
