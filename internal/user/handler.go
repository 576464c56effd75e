package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/studytrack/studytrack/pkg/database"
	"github.com/studytrack/studytrack/pkg/models"
	"github.com/studytrack/studytrack/pkg/plan"
)

// Handler handles user-related operations
type Handler struct {
	clock plan.Clock
}

func NewHandler(clock plan.Clock) *Handler {
	return &Handler{clock: clock}
}

// GetProfile gets the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	query := `SELECT id, username, email, created_at FROM users WHERE id = ?`
	err := database.DB.QueryRow(query, userID).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Greeting returns time-of-day greeting text for the signed-in user. The
// hour comes from the injected clock, keeping the output deterministic
// under test.
func (h *Handler) Greeting(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	username := c.GetString("username")

	now := h.clock.Now()
	var greeting, emoji string
	switch hour := now.Hour(); {
	case hour < 5:
		greeting, emoji = "Burning the midnight oil", "🌙"
	case hour < 12:
		greeting, emoji = "Good morning", "🌅"
	case hour < 17:
		greeting, emoji = "Good afternoon", "☀️"
	case hour < 21:
		greeting, emoji = "Good evening", "🌆"
	default:
		greeting, emoji = "Good night", "🌙"
	}

	c.JSON(http.StatusOK, gin.H{
		"greeting": greeting,
		"emoji":    emoji,
		"username": username,
	})
}
