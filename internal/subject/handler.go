package subject

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/internal/store"
	"github.com/studytrack/studytrack/pkg/metrics"
	"github.com/studytrack/studytrack/pkg/models"
	"github.com/studytrack/studytrack/pkg/plan"
	"github.com/studytrack/studytrack/pkg/progress"
)

// Store is the persistence surface the handler needs. *store.Store satisfies
// it; tests substitute implementations that fail selected writes.
type Store interface {
	ListSubjects(ctx context.Context, ownerID string) ([]models.Subject, error)
	GetSubject(ctx context.Context, id string) (*models.Subject, error)
	CreateSubject(ctx context.Context, ownerID, title string) (*models.Subject, error)
	RenameSubject(ctx context.Context, id, title string) error
	TouchSubject(ctx context.Context, id string, openedAt time.Time) error
	DeleteSubject(ctx context.Context, id string) error
}

// Handler handles subject-related operations
type Handler struct {
	store Store
	hub   *events.Hub
	clock plan.Clock
}

func NewHandler(st Store, hub *events.Hub, clock plan.Clock) *Handler {
	return &Handler{store: st, hub: hub, clock: clock}
}

// ListSubjects returns the caller's subjects, most-recently opened first.
func (h *Handler) ListSubjects(c *gin.Context) {
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

	progress.OrderByLastOpened(subjects)

	c.JSON(http.StatusOK, gin.H{
		"subjects": subjects,
		"count":    len(subjects),
	})
}

// CreateSubjects creates one subject per parsed title. Creates are dispatched
// concurrently and the response waits for all of them to settle; a partial
// failure reports per-title outcomes and leaves successful creates in place.
func (h *Handler) CreateSubjects(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CreateSubjectsRequest
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
			subject, err := h.store.CreateSubject(c.Request.Context(), userID, title)
			if err != nil {
				results[i] = models.BatchItemResult{Title: title, OK: false, Error: err.Error()}
				return
			}
			results[i] = models.BatchItemResult{Title: title, OK: true, ID: subject.ID}
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
		"action":  "created",
		"created": resp.Created,
		"failed":  resp.Failed,
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

// GetSubject gets a specific subject by ID
func (h *Handler) GetSubject(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subject, ok := h.ownedSubject(c, userID)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, subject)
}

// RenameSubject updates a subject's title.
func (h *Handler) RenameSubject(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.RenameSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title must not be empty"})
		return
	}

	subject, ok := h.ownedSubject(c, userID)
	if !ok {
		return
	}

	if err := h.store.RenameSubject(c.Request.Context(), subject.ID, title); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename subject"})
		return
	}

	h.hub.NotifySubjectUpdate(userID, map[string]interface{}{
		"action":     "renamed",
		"subject_id": subject.ID,
		"title":      title,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Subject renamed successfully"})
}

// OpenSubject records that the user opened a subject. The last_opened write
// is persisted first; the reordered listing comes from the next read, so the
// visible order never diverges from durable state.
func (h *Handler) OpenSubject(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subject, ok := h.ownedSubject(c, userID)
	if !ok {
		return
	}

	openedAt := h.clock.Now()
	if err := h.store.TouchSubject(c.Request.Context(), subject.ID, openedAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record open"})
		return
	}

	metrics.IncrementSubjectsOpened()
	h.hub.NotifySubjectUpdate(userID, map[string]interface{}{
		"action":     "opened",
		"subject_id": subject.ID,
	})

	subject.LastOpened = openedAt.UTC()
	c.JSON(http.StatusOK, subject)
}

// DeleteSubject removes a subject. Deletion does not cascade: chapters of
// the deleted subject remain as orphans.
func (h *Handler) DeleteSubject(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	subject, ok := h.ownedSubject(c, userID)
	if !ok {
		return
	}

	if err := h.store.DeleteSubject(c.Request.Context(), subject.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subject not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subject"})
		return
	}

	h.hub.NotifySubjectUpdate(userID, map[string]interface{}{
		"action":     "deleted",
		"subject_id": subject.ID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Subject deleted successfully"})
}

// ownedSubject loads the :id subject and enforces ownership. A subject
// owned by someone else reads as not found.
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
