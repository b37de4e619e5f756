package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"tablehouse/auth"
	"tablehouse/order-svc/internal/domain"
	"tablehouse/order-svc/internal/service"

	"github.com/gorilla/mux"
)

const maxUploadSize = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Handler struct {
	Menu      service.MenuServiceInterface
	Orders    service.OrderServiceInterface
	Gate      *auth.Gate
	UploadDir string
}

func NewHandler(menuSvc service.MenuServiceInterface, orderSvc service.OrderServiceInterface, gate *auth.Gate, uploadDir string) *Handler {
	return &Handler{
		Menu:      menuSvc,
		Orders:    orderSvc,
		Gate:      gate,
		UploadDir: uploadDir,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/menu", h.listMenu).Methods("GET")
	r.HandleFunc("/api/menu/categories", h.listCategories).Methods("GET")
	r.HandleFunc("/api/menu/{id:[0-9]+}", h.getMenuItem).Methods("GET")

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(h.Gate.Require(auth.RoleAdmin)))
	admin.HandleFunc("/menu", h.listAllMenu).Methods("GET")
	admin.HandleFunc("/menu", h.createMenuItem).Methods("POST")
	admin.HandleFunc("/menu/{id:[0-9]+}", h.updateMenuItem).Methods("PUT")
	admin.HandleFunc("/menu/{id:[0-9]+}", h.deleteMenuItem).Methods("DELETE")
	admin.HandleFunc("/menu/{id:[0-9]+}/availability", h.setAvailability).Methods("PATCH")
	admin.HandleFunc("/menu/{id:[0-9]+}/image", h.uploadMenuImage).Methods("POST")

	r.HandleFunc("/api/cart/quote", h.quoteCart).Methods("POST")
	r.Handle("/api/orders", h.Gate.Optional(http.HandlerFunc(h.createOrder))).Methods("POST")
	r.HandleFunc("/api/orders/track/{orderNumber}", h.trackOrder).Methods("GET")
	r.HandleFunc("/api/orders/track/{orderNumber}/qrcode", h.getOrderQRCode).Methods("GET")

	requireAdmin := h.Gate.Require(auth.RoleAdmin)
	r.Handle("/api/orders", requireAdmin(http.HandlerFunc(h.listOrders))).Methods("GET")
	r.Handle("/api/orders/{id:[0-9]+}", requireAdmin(http.HandlerFunc(h.getOrder))).Methods("GET")
	r.Handle("/api/orders/{id:[0-9]+}/status", requireAdmin(http.HandlerFunc(h.updateOrderStatus))).Methods("PATCH")
	r.Handle("/api/orders/{id:[0-9]+}/history", requireAdmin(http.HandlerFunc(h.getOrderHistory))).Methods("GET")

	if h.UploadDir != "" {
		r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.UploadDir))))
	}
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) listMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context(), domain.MenuFilter{Category: r.URL.Query().Get("category")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) listAllMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Menu.List(r.Context(), domain.MenuFilter{
		Category:        r.URL.Query().Get("category"),
		IncludeInactive: true,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Menu.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) getMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	item, err := h.Menu.Get(r.Context(), id, false)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	item := domain.MenuItem{Active: true}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item.ID = 0
	if err := h.Menu.Create(r.Context(), &item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	// Fields missing from the body keep their stored values.
	item, err := h.Menu.Get(r.Context(), id, true)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item.ID = id
	if err := h.Menu.Update(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if err := h.Menu.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAvailability(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req struct {
		Active *bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Active == nil {
		http.Error(w, "active is required", http.StatusBadRequest)
		return
	}
	if err := h.Menu.SetActive(r.Context(), id, *req.Active); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "active": *req.Active})
}

func (h *Handler) uploadMenuImage(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1<<20)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Error retrieving file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	sniff := make([]byte, 512)
	n, _ := io.ReadFull(file, sniff)
	ext, ok := imageExtensions[http.DetectContentType(sniff[:n])]
	if !ok {
		http.Error(w, "Only JPEG, PNG, GIF and WebP images are allowed", http.StatusBadRequest)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0755); err != nil {
		http.Error(w, "Failed to create upload directory", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("menu_%d_%d%s", id, time.Now().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(h.UploadDir, filename))
	if err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	imageURL := "/uploads/" + filename
	if err := h.Menu.UpdateImage(r.Context(), id, imageURL); err != nil {
		os.Remove(filepath.Join(h.UploadDir, filename))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"image_url": imageURL})
}

func (h *Handler) quoteCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []domain.LineRequest `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	quote, err := h.Orders.Quote(r.Context(), req.Items)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		userID := identity.ID
		req.UserID = &userID
	}

	order, err := h.Orders.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) trackOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Track(r.Context(), mux.Vars(r)["orderNumber"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	qr, err := h.Orders.QRCode(r.Context(), mux.Vars(r)["orderNumber"])
	if err != nil {
		writeError(w, err)
		return
	}
	if len(qr) == 0 {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	result, err := h.Orders.List(r.Context(), domain.OrderFilter{
		Status: domain.OrderStatus(query.Get("status")),
		Search: query.Get("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var actorID *int
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		actorID = &identity.ID
	}

	order, err := h.Orders.Advance(r.Context(), id, req.Status, actorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderHistory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	history, err := h.Orders.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("ERROR: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
