package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/allease/allease-core/internal/content"
)

// ContentService is the generative surface the content routes depend on.
type ContentService interface {
	SupportiveContent(ctx context.Context, mood string) (content.SupportResult, error)
	TopicStructure(ctx context.Context, query string) (content.TopicStructure, error)
	SubtopicExplanation(ctx context.Context, topic, subtopic string) (string, error)
	GenerateQuiz(ctx context.Context, topic string) ([]content.QuizQuestion, error)
	ActivityGuide(ctx context.Context, activity string) (content.ActivityGuide, error)
	Speak(ctx context.Context, text string) ([]byte, error)
}

// ContentHandler serves generated supportive and learning content.
type ContentHandler struct {
	svc ContentService
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(svc ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

// Support returns a calming response for the submitted mood.
func (h *ContentHandler) Support(c *gin.Context) {
	var req struct {
		Mood string `json:"mood" binding:"required"`
	}
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, errGen := h.svc.SupportiveContent(c.Request.Context(), req.Mood)
	if errGen != nil {
		contentUnavailable(c, errGen)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": result.Text, "visual": result.Visual})
}

// Topic returns a structured knowledge map for the submitted query.
func (h *ContentHandler) Topic(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	structure, errGen := h.svc.TopicStructure(c.Request.Context(), req.Query)
	if errGen != nil {
		contentUnavailable(c, errGen)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": structure})
}

// Subtopic expands one branch of a topic.
func (h *ContentHandler) Subtopic(c *gin.Context) {
	var req struct {
		Topic    string `json:"topic" binding:"required"`
		Subtopic string `json:"subtopic" binding:"required"`
	}
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	explanation, errGen := h.svc.SubtopicExplanation(c.Request.Context(), req.Topic, req.Subtopic)
	if errGen != nil {
		contentUnavailable(c, errGen)
		return
	}
	c.JSON(http.StatusOK, gin.H{"explanation": explanation})
}

// Quiz generates an assessment for a topic.
func (h *ContentHandler) Quiz(c *gin.Context) {
	var req struct {
		Topic string `json:"topic" binding:"required"`
	}
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	questions, errGen := h.svc.GenerateQuiz(c.Request.Context(), req.Topic)
	if errGen != nil {
		contentUnavailable(c, errGen)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

// Activity generates a step-by-step protocol for an activity.
func (h *ContentHandler) Activity(c *gin.Context) {
	var req struct {
		Activity string `json:"activity" binding:"required"`
	}
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	guide, errGen := h.svc.ActivityGuide(c.Request.Context(), req.Activity)
	if errGen != nil {
		contentUnavailable(c, errGen)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guide": guide})
}

// Speak renders a phrase as WAV audio.
func (h *ContentHandler) Speak(c *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	wav, errGen := h.svc.Speak(c.Request.Context(), req.Text)
	if errGen != nil {
		contentUnavailable(c, errGen)
		return
	}
	c.Data(http.StatusOK, "audio/wav", wav)
}

func contentUnavailable(c *gin.Context, err error) {
	log.Warnf("content generation failed: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "content unavailable"})
}
