package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"tablehouse/api-gateway/internal/gateway"
	"tablehouse/config"

	"github.com/rs/cors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewGateway(gateway.Config{
		OrderSvcURL:     config.GetEnv("ORDER_SVC_URL", "http://localhost:8081"),
		AuthSvcURL:      config.GetEnv("AUTH_SVC_URL", "http://localhost:8082"),
		AnalyticsSvcURL: config.GetEnv("ANALYTICS_SVC_URL", "http://localhost:8083"),
		FrontendDir:     config.GetEnv("FRONTEND_DIR", ""),
	}, &http.Client{Timeout: 30 * time.Second})

	c := cors.New(cors.Options{
		AllowedOrigins: config.GetEnvList("CORS_ORIGINS", []string{"*"}),
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "auth-token", "Idempotency-Key"},
	})

	srv := &http.Server{
		Addr:         ":" + config.GetEnv("GATEWAY_PORT", "8080"),
		Handler:      c.Handler(gw.SetupRoutes()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("API Gateway shutdown: %v", err)
		}
	}()

	log.Printf("API Gateway starting on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
