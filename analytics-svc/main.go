package main

import (
	"context"
	"os/signal"
	"syscall"

	httpapi "tablehouse/analytics-svc/internal/api/http"
	"tablehouse/analytics-svc/internal/service"
	"tablehouse/analytics-svc/internal/storage"
	"tablehouse/auth"
	"tablehouse/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	tokens := auth.NewTokens([]byte(config.MustGetEnv("JWT_SECRET")), config.GetEnvDuration("JWT_TTL", auth.DefaultTokenTTL))
	gate := auth.NewGate(tokens, auth.NewPostgresIdentityStore(db))

	dashboardSvc := service.NewDashboardService(
		storage.NewPostgresRepository(db),
		storage.NewRedisSnapshotCache(rdb, config.GetEnvDuration("DASHBOARD_CACHE_TTL", storage.DefaultSnapshotTTL)),
		config.MustLocation(config.GetEnv("DASHBOARD_TZ", "")),
	)

	handler := httpapi.NewHandler(dashboardSvc, gate)
	router := httpapi.NewRouter(handler, config.GetEnvList("CORS_ORIGINS", []string{"*"}))

	httpapi.StartServer(ctx, ":"+config.GetEnv("ANALYTICS_SVC_PORT", "8083"), router)
}
