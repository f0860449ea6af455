package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allease/allease-core/internal/vault"
)

// StateHandler serves reads and mutations of the caller's wellbeing state.
type StateHandler struct {
	vault *vault.Vault
}

// NewStateHandler constructs a StateHandler.
func NewStateHandler(v *vault.Vault) *StateHandler {
	return &StateHandler{vault: v}
}

// Get returns the caller's current state.
func (h *StateHandler) Get(c *gin.Context) {
	email := c.GetString(ContextEmail)
	record, ok := h.vault.Users(c.Request.Context())[email]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "identity not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": record.State})
}

// Replace overwrites the caller's whole state document.
func (h *StateHandler) Replace(c *gin.Context) {
	var state vault.ApplicationState
	if errBind := c.ShouldBindJSON(&state); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	email := c.GetString(ContextEmail)
	if errSave := h.vault.SaveState(c.Request.Context(), email, state); errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

type moodRequest struct {
	Mood string `json:"mood" binding:"required"`
}

// LogMood prepends a mood entry and credits the mood gain.
func (h *StateHandler) LogMood(c *gin.Context) {
	var req moodRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.mutate(c, func(s *vault.ApplicationState, now int64) {
		s.LogMood(req.Mood, now)
		s.AddImpact(vault.GainMood, now)
	})
}

// ExploreTopic records a topic exploration and credits the topic gain. A
// repeated title keeps the list unchanged but still scores.
func (h *StateHandler) ExploreTopic(c *gin.Context) {
	var topic vault.Topic
	if errBind := c.ShouldBindJSON(&topic); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if topic.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.mutate(c, func(s *vault.ApplicationState, now int64) {
		s.ExploreTopic(topic)
		s.AddImpact(vault.GainTopic, now)
	})
}

type ecoRequest struct {
	Action string `json:"action" binding:"required"`
}

// CompleteEcoAction records an eco action and credits the eco gain.
func (h *StateHandler) CompleteEcoAction(c *gin.Context) {
	var req ecoRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.mutate(c, func(s *vault.ApplicationState, now int64) {
		s.CompleteEcoAction(req.Action, now)
		s.AddImpact(vault.GainEco, now)
	})
}

type quizResultRequest struct {
	Topic string `json:"topic" binding:"required"`
	Score int    `json:"score"`
	Total int    `json:"total" binding:"required"`
}

// RecordQuiz stores a quiz outcome. Quiz completion does not change the score.
func (h *StateHandler) RecordQuiz(c *gin.Context) {
	var req quizResultRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.mutate(c, func(s *vault.ApplicationState, now int64) {
		s.RecordQuiz(req.Topic, req.Score, req.Total, now)
	})
}

// CompleteBreath credits the breathing-exercise gain.
func (h *StateHandler) CompleteBreath(c *gin.Context) {
	h.mutate(c, func(s *vault.ApplicationState, now int64) {
		s.AddImpact(vault.GainBreath, now)
	})
}

// mutate applies one state mutation for the caller and returns the result.
func (h *StateHandler) mutate(c *gin.Context, fn func(*vault.ApplicationState, int64)) {
	email := c.GetString(ContextEmail)
	now := h.vault.NowMillis()
	state, errUpdate := h.vault.UpdateState(c.Request.Context(), email, func(s *vault.ApplicationState) {
		fn(s, now)
	})
	if errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}
