// Package api registers the HTTP surface: auth, state, query, content and
// health routes, plus the partition and session middleware.
package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/allease/allease-core/internal/config"
	"github.com/allease/allease-core/internal/http/api/handlers"
	"github.com/allease/allease-core/internal/query"
	"github.com/allease/allease-core/internal/security"
	"github.com/allease/allease-core/internal/session"
	"github.com/allease/allease-core/internal/vault"
)

// PartitionHeader names the client partition. Each browser tab sends its own
// value so concurrent sessions stay independent.
const PartitionHeader = "X-Partition"

// DefaultPartition is used when a client omits the partition header.
const DefaultPartition = "default"

// RegisterRoutes registers all routes, middleware, and handlers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, v *vault.Vault, sessions *session.Store, shim *query.Shim, contentSvc handlers.ContentService, jwtCfg config.JWTConfig) {
	if r == nil || v == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	v0 := r.Group("/v0")
	v0.Use(partitionMiddleware())

	authHandler := handlers.NewAuthHandler(v, sessions, jwtCfg)
	v0.POST("/auth/register", authHandler.Register)
	v0.POST("/auth/login", authHandler.Login)
	v0.GET("/session", authHandler.Session)

	queryHandler := handlers.NewQueryHandler(shim, sessions)
	v0.POST("/query", queryHandler.Execute)

	authed := v0.Group("")
	authed.Use(sessionAuthMiddleware(jwtCfg, sessions))

	authed.POST("/auth/logout", authHandler.Logout)

	stateHandler := handlers.NewStateHandler(v)
	authed.GET("/state", stateHandler.Get)
	authed.PUT("/state", stateHandler.Replace)
	authed.POST("/state/moods", stateHandler.LogMood)
	authed.POST("/state/topics", stateHandler.ExploreTopic)
	authed.POST("/state/eco", stateHandler.CompleteEcoAction)
	authed.POST("/state/quizzes", stateHandler.RecordQuiz)
	authed.POST("/state/breath", stateHandler.CompleteBreath)

	contentHandler := handlers.NewContentHandler(contentSvc)
	authed.POST("/content/support", contentHandler.Support)
	authed.POST("/content/topic", contentHandler.Topic)
	authed.POST("/content/subtopic", contentHandler.Subtopic)
	authed.POST("/content/quiz", contentHandler.Quiz)
	authed.POST("/content/activity", contentHandler.Activity)
	authed.POST("/content/speak", contentHandler.Speak)
}

// partitionMiddleware resolves the client partition from the request header.
func partitionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		partition := strings.TrimSpace(c.GetHeader(PartitionHeader))
		if partition == "" {
			partition = DefaultPartition
		}
		c.Set(handlers.ContextPartition, partition)
		c.Next()
	}
}

// sessionAuthMiddleware verifies the bearer token and that the session store
// still maps the token's partition to its subject. Logout clears the mapping,
// which invalidates otherwise valid tokens.
func sessionAuthMiddleware(jwtCfg config.JWTConfig, sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseSessionToken(jwtCfg, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		email, ok := sessions.Current(claims.Partition)
		if !ok || email != vault.NormalizeEmail(claims.Subject) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		c.Set(handlers.ContextEmail, email)
		c.Set(handlers.ContextPartition, claims.Partition)
		c.Next()
	}
}
