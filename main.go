package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"

	"heirloom/config"
	"heirloom/config/database"
	"heirloom/internal/docstore"
	"heirloom/internal/identity"
	"heirloom/internal/objstore"
	"heirloom/pkg/logger"
	"heirloom/router"
)

func main() {
	logger.Init()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Sugar.Info("No .env file found, using environment variables from OS")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Sugar.Fatalf("Invalid configuration: %v", err)
	}

	db := database.Connect(cfg.DatabaseURL)
	defer db.Close()

	store := docstore.NewStore(db)
	if err := store.EnsureSchema(); err != nil {
		logger.Sugar.Fatalf("Failed to prepare records schema: %v", err)
	}

	provider := identity.NewJWTProvider(db, cfg.JWTSecret, cfg.TokenTTL())
	if err := provider.EnsureSchema(); err != nil {
		logger.Sugar.Fatalf("Failed to prepare identities schema: %v", err)
	}

	// Document uploads need the object store; everything else works without
	// it, so a missing bucket only degrades the upload route.
	var objects objstore.ObjectStore
	s3Store, err := objstore.NewS3Store(context.Background(), cfg.S3Bucket, cfg.AWSRegion)
	if err != nil {
		logger.Sugar.Warnf("Object store unavailable, document upload disabled: %v", err)
	} else {
		objects = s3Store
	}

	handler := router.Setup(db, provider, objects)

	logger.Sugar.Infof("heirloom API listening on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, handler); err != nil {
		logger.Sugar.Fatalf("Server failed: %v", err)
	}
}
