package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allease/allease-core/internal/query"
	"github.com/allease/allease-core/internal/session"
)

// QueryHandler serves the diagnostic query console. The endpoint is open:
// anonymous callers get the roster projection, bound partitions get their
// own redacted row.
type QueryHandler struct {
	shim     *query.Shim
	sessions *session.Store
}

// NewQueryHandler constructs a QueryHandler.
func NewQueryHandler(shim *query.Shim, sessions *session.Store) *QueryHandler {
	return &QueryHandler{shim: shim, sessions: sessions}
}

type queryRequest struct {
	Command string `json:"command" binding:"required"`
}

// Execute runs one console command. A rejected command is still a 200: the
// rejection message is console output, not a transport failure.
func (h *QueryHandler) Execute(c *gin.Context) {
	var req queryRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	actingEmail, _ := h.sessions.Current(c.GetString(ContextPartition))
	result := h.shim.Execute(c.Request.Context(), req.Command, actingEmail)
	if result.Rejected {
		c.JSON(http.StatusOK, gin.H{"error": result.Message})
		return
	}

	switch result.Command {
	case query.CommandSelectUsers:
		c.JSON(http.StatusOK, gin.H{"rows": result.Users})
	case query.CommandSelectLogs:
		c.JSON(http.StatusOK, gin.H{"rows": result.Logs})
	default:
		c.JSON(http.StatusOK, gin.H{"rows": []gin.H{}})
	}
}
