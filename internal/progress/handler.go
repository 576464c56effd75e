package progress

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/internal/store"
	"github.com/studytrack/studytrack/pkg/models"
	"github.com/studytrack/studytrack/pkg/progress"
)

// Handler serves derived progress views. Nothing here is persisted: every
// response is recomputed from current store contents, so a full reload
// reproduces identical values.
type Handler struct {
	store *store.Store
}

func NewHandler(st *store.Store) *Handler {
	return &Handler{store: st}
}

// SubjectProgress returns completion stats for one subject.
func (h *Handler) SubjectProgress(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subjectID := c.Param("id")
	subject, err := h.store.GetSubject(c.Request.Context(), subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if subject.OwnerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		return
	}

	chapters, err := h.store.ListChapters(c.Request.Context(), subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stats := progress.Aggregate(chapters)
	c.JSON(http.StatusOK, models.SubjectProgress{
		Subject:           *subject,
		CompletedChapters: stats.Completed,
		TotalChapters:     stats.Total,
		Percentage:        stats.Percentage,
	})
}

// Overview returns per-subject and global completion stats for the caller.
// The per-subject chapter fetches are independent and run concurrently; the
// response waits for all of them before the totals are summed, and the
// final ordering is the recency ranking.
func (h *Handler) Overview(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subjects, err := h.store.ListSubjects(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	annotated := make([]models.SubjectProgress, len(subjects))
	fetchErrs := make([]error, len(subjects))

	var wg sync.WaitGroup
	for i, subject := range subjects {
		wg.Add(1)
		go func(i int, subject models.Subject) {
			defer wg.Done()
			chapters, err := h.store.ListChapters(c.Request.Context(), subject.ID)
			if err != nil {
				fetchErrs[i] = err
				return
			}
			stats := progress.Aggregate(chapters)
			annotated[i] = models.SubjectProgress{
				Subject:           subject,
				CompletedChapters: stats.Completed,
				TotalChapters:     stats.Total,
				Percentage:        stats.Percentage,
			}
		}(i, subject)
	}
	wg.Wait()

	for _, err := range fetchErrs {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
	}

	progress.OrderProgressByLastOpened(annotated)
	completed, total, percentage := progress.Global(annotated)

	c.JSON(http.StatusOK, models.ProgressOverview{
		Subjects:          annotated,
		CompletedChapters: completed,
		TotalChapters:     total,
		Percentage:        percentage,
	})
}
