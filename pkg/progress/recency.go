package progress

import (
	"sort"

	"github.com/studytrack/studytrack/pkg/models"
)

// OrderByLastOpened sorts subjects most-recently opened first. The sort is
// stable: subjects with the same last_opened (including the epoch default of
// never-opened subjects) keep their relative input order, so listings do not
// jitter across reloads.
func OrderByLastOpened(subjects []models.Subject) {
	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].LastOpened.After(subjects[j].LastOpened)
	})
}

// OrderProgressByLastOpened applies the same ordering to annotated subjects.
func OrderProgressByLastOpened(subjects []models.SubjectProgress) {
	sort.SliceStable(subjects, func(i, j int) bool {
		return subjects[i].Subject.LastOpened.After(subjects[j].Subject.LastOpened)
	})
}
