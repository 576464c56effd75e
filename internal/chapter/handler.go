package chapter

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/internal/store"
	"github.com/studytrack/studytrack/pkg/metrics"
	"github.com/studytrack/studytrack/pkg/models"
	"github.com/studytrack/studytrack/pkg/progress"
)

// Store is the persistence surface the handler needs. *store.Store satisfies
// it; tests substitute implementations that fail selected writes.
type Store interface {
	ListChapters(ctx context.Context, subjectID string) ([]models.Chapter, error)
	GetChapter(ctx context.Context, id string) (*models.Chapter, error)
	CreateChapter(ctx context.Context, subjectID, title string) (*models.Chapter, error)
	SetChapterCompletion(ctx context.Context, id string, completed bool) error
	GetSubject(ctx context.Context, id string) (*models.Subject, error)
}

// Handler handles chapter-related operations
type Handler struct {
	store Store
	hub   *events.Hub
}

func NewHandler(st Store, hub *events.Hub) *Handler {
	return &Handler{store: st, hub: hub}
}

// ListChapters returns the chapters of one subject together with derived
// completion stats.
func (h *Handler) ListChapters(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subject, ok := h.ownedSubject(c, userID)
	if !ok {
		return
	}

	chapters, err := h.store.ListChapters(c.Request.Context(), subject.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stats := progress.Aggregate(chapters)

	c.JSON(http.StatusOK, gin.H{
		"chapters":   chapters,
		"count":      stats.Total,
		"completed":  stats.Completed,
		"percentage": stats.Percentage,
	})
}

// CreateChapters creates one chapter per parsed title under a subject.
// Sibling creates have no ordering dependency and run concurrently; the
// response settles only after every create has finished and reports which
// titles, if any, failed.
func (h *Handler) CreateChapters(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subject, ok := h.ownedSubject(c, userID)
	if !ok {
		return
	}

	var req models.CreateChaptersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	titles := progress.ParseTitles(req.Titles)
	if len(titles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No valid titles provided"})
		return
	}

	results := make([]models.BatchItemResult, len(titles))
	var wg sync.WaitGroup
	for i, title := range titles {
		wg.Add(1)
		go func(i int, title string) {
			defer wg.Done()
			chapter, err := h.store.CreateChapter(c.Request.Context(), subject.ID, title)
			if err != nil {
				results[i] = models.BatchItemResult{Title: title, OK: false, Error: err.Error()}
				return
			}
			results[i] = models.BatchItemResult{Title: title, OK: true, ID: chapter.ID}
		}(i, title)
	}
	wg.Wait()

	resp := models.BatchCreateResponse{Results: results}
	for _, r := range results {
		if r.OK {
			resp.Created++
		} else {
			resp.Failed++
		}
	}

	metrics.AddBatchItems(int64(len(titles)))
	metrics.AddBatchItemFails(int64(resp.Failed))

	h.hub.NotifySubjectUpdate(userID, map[string]interface{}{
		"action":     "chapters_created",
		"subject_id": subject.ID,
		"created":    resp.Created,
		"failed":     resp.Failed,
	})

	switch {
	case resp.Failed == 0:
		c.JSON(http.StatusCreated, resp)
	case resp.Created == 0:
		c.JSON(http.StatusInternalServerError, resp)
	default:
		c.JSON(http.StatusMultiStatus, resp)
	}
}

// SetCompletion marks a chapter complete or incomplete. Toggling twice
// returns the chapter to its original state: progress is written as 100 or
// 0 alongside the flag, never anything in between.
func (h *Handler) SetCompletion(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	chapterID := c.Param("id")
	if chapterID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chapter ID is required"})
		return
	}

	var req models.SetCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.store.GetChapter(c.Request.Context(), chapterID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Ownership runs through the parent subject. Orphaned chapters (their
	// subject was deleted) are no longer reachable for writes.
	subject, err := h.store.GetSubject(c.Request.Context(), chapter.SubjectID)
	if err != nil || subject.OwnerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
		return
	}

	completed := *req.Completed
	if err := h.store.SetChapterCompletion(c.Request.Context(), chapterID, completed); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Chapter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update chapter"})
		return
	}

	chapter.Completed = completed
	if completed {
		chapter.Progress = 100
	} else {
		chapter.Progress = 0
	}

	h.hub.NotifyChapterCompleted(userID, map[string]interface{}{
		"subject_id": chapter.SubjectID,
		"chapter_id": chapter.ID,
		"completed":  completed,
	})

	c.JSON(http.StatusOK, chapter)
}

func (h *Handler) ownedSubject(c *gin.Context, userID string) (*models.Subject, bool) {
	subjectID := c.Param("id")
	if subjectID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject ID is required"})
		return nil, false
	}

	subject, err := h.store.GetSubject(c.Request.Context(), subjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if subject.OwnerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
		return nil, false
	}
	return subject, true
}
