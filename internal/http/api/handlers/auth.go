package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allease/allease-core/internal/config"
	"github.com/allease/allease-core/internal/security"
	"github.com/allease/allease-core/internal/session"
	"github.com/allease/allease-core/internal/vault"
)

// Context keys populated by the route middleware.
const (
	ContextEmail     = "sessionEmail"
	ContextPartition = "sessionPartition"
)

// AuthHandler serves registration, login, logout and session lookup.
type AuthHandler struct {
	vault    *vault.Vault
	sessions *session.Store
	jwtCfg   config.JWTConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(v *vault.Vault, sessions *session.Store, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{vault: v, sessions: sessions, jwtCfg: jwtCfg}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new identity with a baseline state.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	record, errRegister := h.vault.Register(c.Request.Context(), req.Email, req.Password)
	if errRegister != nil {
		if errors.Is(errRegister, vault.ErrDuplicateIdentity) {
			c.JSON(http.StatusConflict, gin.H{"error": errRegister.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": userPayload(record)})
}

// Login verifies credentials, binds the partition to the identity, and
// issues a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if errBind := c.ShouldBindJSON(&req); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	record, errLogin := h.vault.Login(c.Request.Context(), req.Email, req.Password)
	if errLogin != nil {
		if errors.Is(errLogin, vault.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": errLogin.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	partition := c.GetString(ContextPartition)
	token, errToken := security.MintSessionToken(h.jwtCfg, record.Email, partition, time.Now())
	if errToken != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	h.sessions.SetCurrent(partition, record.Email)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": userPayload(record)})
}

// Logout releases the partition's identity binding.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c.GetString(ContextPartition))
	c.Status(http.StatusNoContent)
}

// Session reports which identity, if any, the partition is bound to.
func (h *AuthHandler) Session(c *gin.Context) {
	email, ok := h.sessions.Current(c.GetString(ContextPartition))
	if !ok {
		c.JSON(http.StatusOK, gin.H{"email": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"email": email})
}

func userPayload(record vault.UserRecord) gin.H {
	return gin.H{"email": record.Email, "state": record.State}
}
