package target

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/internal/events"
	"github.com/studytrack/studytrack/internal/store"
	"github.com/studytrack/studytrack/pkg/models"
	"github.com/studytrack/studytrack/pkg/plan"
)

// Handler handles target-related operations
type Handler struct {
	store *store.Store
	hub   *events.Hub
	clock plan.Clock
}

func NewHandler(st *store.Store, hub *events.Hub, clock plan.Clock) *Handler {
	return &Handler{store: st, hub: hub, clock: clock}
}

// CreateTarget validates the pacing and persists a target with the required
// chapters-per-day rate frozen in. A target date that leaves no days
// remaining is rejected before any store write; the rate is a snapshot of
// what was needed as of creation and is never recomputed afterwards.
func (h *Handler) CreateTarget(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.CreateTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rate, err := plan.ComputeDailyTarget(req.TargetDate, req.TotalChapters, h.clock.Now())
	if err != nil {
		var invalid *plan.InvalidTargetError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target date must be in the future"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute pace"})
		return
	}

	target := &models.Target{
		OwnerID:        userID,
		TotalChapters:  req.TotalChapters,
		ChaptersPerDay: rate,
		TargetDate:     req.TargetDate,
	}

	created, err := h.store.CreateTarget(c.Request.Context(), target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create target"})
		return
	}

	h.hub.NotifyTargetSet(userID, map[string]interface{}{
		"target_id":        created.ID,
		"chapters_per_day": created.ChaptersPerDay,
	})

	c.JSON(http.StatusCreated, created)
}

// ListTargets returns the caller's targets, newest first.
func (h *Handler) ListTargets(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	targets, err := h.store.ListTargets(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"targets": targets,
		"count":   len(targets),
	})
}
