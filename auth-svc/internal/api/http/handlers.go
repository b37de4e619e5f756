package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"tablehouse/auth"
	"tablehouse/auth-svc/internal/domain"
	"tablehouse/auth-svc/internal/service"

	"github.com/gorilla/mux"
)

const invalidLogin = "invalid email or password"

type Handler struct {
	Auth  service.AuthServiceInterface
	Users service.UserServiceInterface
	Gate  *auth.Gate
}

func NewHandler(authSvc service.AuthServiceInterface, userSvc service.UserServiceInterface, gate *auth.Gate) *Handler {
	return &Handler{
		Auth:  authSvc,
		Users: userSvc,
		Gate:  gate,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/verify", h.verify).Methods("GET")

	users := r.PathPrefix("/api/users").Subrouter()
	users.Use(mux.MiddlewareFunc(h.Gate.Require(auth.RoleAdmin)))
	users.HandleFunc("", h.listUsers).Methods("GET")
	users.HandleFunc("/{id:[0-9]+}/role", h.setRole).Methods("PATCH")
	users.HandleFunc("/{id:[0-9]+}/status", h.toggleStatus).Methods("PATCH")
	users.HandleFunc("/{id:[0-9]+}", h.deleteUser).Methods("DELETE")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "auth-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	session, err := h.Auth.Login(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, session)
	case errors.Is(err, auth.ErrNotFound), errors.Is(err, auth.ErrInvalidCredential):
		http.Error(w, invalidLogin, http.StatusUnauthorized)
	case errors.Is(err, auth.ErrDeactivated):
		http.Error(w, "Account is deactivated", http.StatusForbidden)
	default:
		writeError(w, err)
	}
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		http.Error(w, "Access denied", http.StatusUnauthorized)
		return
	}
	user, err := h.Auth.Verify(r.Context(), token)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]interface{}{"valid": true, "user": user})
	case errors.Is(err, auth.ErrDeactivated):
		http.Error(w, "Account is deactivated", http.StatusUnauthorized)
	case errors.Is(err, auth.ErrInvalidCredential):
		http.Error(w, "Invalid token", http.StatusUnauthorized)
	default:
		writeError(w, err)
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context(), domain.UserFilter{
		Search: r.URL.Query().Get("search"),
		Role:   r.URL.Query().Get("role"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) setRole(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := h.Users.SetRole(r.Context(), actorID(r), id, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) toggleStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	user, err := h.Users.ToggleActive(r.Context(), actorID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Users.Delete(r.Context(), actorID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// actorID is only called behind Gate.Require, which always sets the identity.
func actorID(r *http.Request) int {
	identity, _ := auth.IdentityFromContext(r.Context())
	return identity.ID
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, auth.ErrDuplicateEmail):
		http.Error(w, "email already registered", http.StatusConflict)
	case errors.Is(err, auth.ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, auth.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		log.Printf("ERROR: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
