package gateway

import (
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL     string
	AuthSvcURL      string
	AnalyticsSvcURL string
	// FrontendDir serves the storefront build for non-API paths when set.
	FrontendDir string
}

type Gateway struct {
	config Config
	client HTTPClient
}

func NewGateway(config Config, client HTTPClient) *Gateway {
	return &Gateway{
		config: config,
		client: client,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	log.Printf("PROXY: %s %s -> %s%s", r.Method, r.URL.Path, targetURL, r.URL.Path)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.Printf("ERROR: Failed to create request: %v", err)
		http.Error(w, "Bad gateway request", http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		req.Header.Set("X-Forwarded-For", host)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("ERROR: Failed to proxy to %s: %v", targetURL, err)
		http.Error(w, "Upstream service unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("ERROR: Failed to copy response: %v", err)
	}
}

// target picks the backend for an API path, or "" when no service owns it.
func (g *Gateway) target(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/auth/"),
		path == "/api/users", strings.HasPrefix(path, "/api/users/"):
		return g.config.AuthSvcURL

	case strings.HasPrefix(path, "/api/orders/stats/"),
		strings.HasPrefix(path, "/api/analytics/"):
		return g.config.AnalyticsSvcURL

	case path == "/api/menu", strings.HasPrefix(path, "/api/menu/"),
		path == "/api/admin/menu", strings.HasPrefix(path, "/api/admin/menu/"),
		strings.HasPrefix(path, "/api/cart/"),
		path == "/api/orders", strings.HasPrefix(path, "/api/orders/"),
		strings.HasPrefix(path, "/uploads/"):
		return g.config.OrderSvcURL
	}
	return ""
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	log.Printf("ROUTE: %s %s", r.Method, path)

	if target := g.target(path); target != "" {
		g.ProxyRequest(w, r, target)
		return
	}

	if strings.HasPrefix(path, "/api/") {
		log.Printf("[GATEWAY] Unmatched API route: %s", path)
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}

	if g.config.FrontendDir == "" {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(g.config.FrontendDir, "index.html"))
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/uploads/").HandlerFunc(g.RouteHandler)
	if g.config.FrontendDir != "" {
		r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(g.config.FrontendDir))))
	}
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
