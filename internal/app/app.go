// Package app wires configuration, storage and the HTTP surface into a
// runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/allease/allease-core/internal/config"
	"github.com/allease/allease-core/internal/content"
	"github.com/allease/allease-core/internal/db"
	"github.com/allease/allease-core/internal/http/api"
	"github.com/allease/allease-core/internal/query"
	"github.com/allease/allease-core/internal/security"
	"github.com/allease/allease-core/internal/session"
	"github.com/allease/allease-core/internal/storage"
	"github.com/allease/allease-core/internal/vault"
)

const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the API server with database-backed storage. It blocks
// until ctx is cancelled or the listener fails.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)

	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	jwtCfg, errJWT := config.LoadJWTConfig(configPath)
	if errJWT != nil {
		return errJWT
	}
	authCfg, errAuth := config.LoadAuthConfig(configPath)
	if errAuth != nil {
		return errAuth
	}
	hasher, errHasher := security.NewPasswordHasher(authCfg)
	if errHasher != nil {
		return errHasher
	}

	geminiCfg, errGemini := config.LoadGeminiConfig(configPath)
	if errGemini != nil {
		return errGemini
	}
	contentSvc, errContent := content.New(ctx, geminiCfg)
	if errContent != nil {
		return errContent
	}

	v := vault.New(storage.NewGormStore(conn), hasher)
	sessions := session.NewStore()
	shim := query.NewShim(v)

	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, conn, v, sessions, shim, contentSvc, jwtCfg)

	port := config.LoadPort(configPath, defaultPort)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s (database dialect: %s)", srv.Addr, db.DialectName(conn))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
