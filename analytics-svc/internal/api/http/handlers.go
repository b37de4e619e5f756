package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"tablehouse/analytics-svc/internal/domain"
	"tablehouse/analytics-svc/internal/service"
	"tablehouse/auth"

	"github.com/gorilla/mux"
)

type Handler struct {
	Dashboard service.DashboardServiceInterface
	Gate      *auth.Gate
}

func NewHandler(svc service.DashboardServiceInterface, gate *auth.Gate) *Handler {
	return &Handler{Dashboard: svc, Gate: gate}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "analytics-svc"})
	}).Methods("GET")

	requireAdmin := h.Gate.Require(auth.RoleAdmin)
	r.Handle("/api/orders/stats/dashboard", requireAdmin(http.HandlerFunc(h.getDashboard))).Methods("GET")

	analytics := r.PathPrefix("/api/analytics").Subrouter()
	analytics.Use(mux.MiddlewareFunc(requireAdmin))
	analytics.HandleFunc("/summary", h.getSummary).Methods("GET")
	analytics.HandleFunc("/recent", h.getRecent).Methods("GET")
	analytics.HandleFunc("/status-breakdown", h.getStatusBreakdown).Methods("GET")
	analytics.HandleFunc("/top-items", h.getTopItems).Methods("GET")
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.Dashboard.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Summary(r.Context(), windowParam(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) getRecent(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	orders, err := h.Dashboard.RecentOrders(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getStatusBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.Dashboard.StatusBreakdown(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *Handler) getTopItems(w http.ResponseWriter, r *http.Request) {
	limit, ok := intParam(w, r, "limit")
	if !ok {
		return
	}
	items, err := h.Dashboard.TopItems(r.Context(), windowParam(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func windowParam(r *http.Request) domain.Window {
	window := domain.Window(r.URL.Query().Get("window"))
	if window == "" {
		return domain.WindowToday
	}
	return window
}

// intParam treats a missing value as zero so the service applies its default.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		http.Error(w, "Invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return n, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrValidation) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("ERROR: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
