package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tablehouse/auth"
	httpapi "tablehouse/auth-svc/internal/api/http"
	"tablehouse/auth-svc/internal/service"
	"tablehouse/auth-svc/internal/storage"
	"tablehouse/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	tokens := auth.NewTokens([]byte(config.MustGetEnv("JWT_SECRET")), config.GetEnvDuration("JWT_TTL", auth.DefaultTokenTTL))
	gate := auth.NewGate(tokens, auth.NewPostgresIdentityStore(db))

	authSvc := service.NewAuthService(repo, gate)
	userSvc := service.NewUserService(repo)

	if email, password := os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD"); email != "" && password != "" {
		if err := userSvc.EnsureAdmin(ctx, config.GetEnv("ADMIN_NAME", "Administrator"), email, password); err != nil {
			log.Fatal("Failed to bootstrap admin account:", err)
		}
	}

	handler := httpapi.NewHandler(authSvc, userSvc, gate)
	router := httpapi.NewRouter(handler, config.GetEnvList("CORS_ORIGINS", []string{"*"}))

	httpapi.StartServer(ctx, ":"+config.GetEnv("AUTH_SVC_PORT", "8082"), router)
}
