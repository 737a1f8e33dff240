package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/rl1809/cart-store/internal/core/domain"
	"github.com/rl1809/cart-store/internal/core/service"
)

const SessionHeader = "X-Session-ID"

type HTTPHandler struct {
	cartService     *service.CartService
	wishlistService *service.WishlistService
	logger          *zap.Logger
}

type AddItemHTTPRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  *int  `json:"quantity,omitempty"`
}

type UpdateQuantityHTTPRequest struct {
	Quantity *int `json:"quantity"`
}

type WishlistItemHTTPRequest struct {
	ProductID int64 `json:"productId"`
}

type WishlistContainsHTTPResponse struct {
	ProductID  int64 `json:"productId"`
	InWishlist bool  `json:"inWishlist"`
}

type ErrorHTTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewHTTPHandler(cartService *service.CartService, wishlistService *service.WishlistService, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{
		cartService:     cartService,
		wishlistService: wishlistService,
		logger:          logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	// Catalog
	r.HandleFunc("/api/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/products/{id:[0-9]+}", h.GetProduct).Methods(http.MethodGet)

	// Cart
	r.HandleFunc("/api/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/api/cart", h.ClearCart).Methods(http.MethodDelete)
	r.HandleFunc("/api/cart/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/api/cart/items/{productId:[0-9]+}", h.UpdateQuantity).Methods(http.MethodPut)
	r.HandleFunc("/api/cart/items/{productId:[0-9]+}", h.RemoveItem).Methods(http.MethodDelete)

	// Wishlist
	r.HandleFunc("/api/wishlist", h.GetWishlist).Methods(http.MethodGet)
	r.HandleFunc("/api/wishlist/items", h.AddToWishlist).Methods(http.MethodPost)
	r.HandleFunc("/api/wishlist/items/{productId:[0-9]+}", h.InWishlist).Methods(http.MethodGet)
	r.HandleFunc("/api/wishlist/items/{productId:[0-9]+}", h.RemoveFromWishlist).Methods(http.MethodDelete)
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Category: q.Get("category"),
		Status:   domain.InventoryStatus(q.Get("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status")
		return
	}

	var err error
	if filter.Page, err = intParam(q.Get("page")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	if filter.Size, err = intParam(q.Get("size")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid size")
		return
	}

	page, err := h.cartService.Products(r.Context(), filter)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

	product, err := h.cartService.Product(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.View(r.Context(), session(w, r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	quantity := service.DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	view, err := h.cartService.AddProduct(r.Context(), session(w, r), req.ProductID, quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)

	var req UpdateQuantityHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.cartService.UpdateQuantity(r.Context(), session(w, r), productID, *req.Quantity)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)

	view, err := h.cartService.RemoveProduct(r.Context(), session(w, r), productID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartService.Clear(r.Context(), session(w, r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	view, err := h.wishlistService.View(r.Context(), session(w, r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req WishlistItemHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProductID <= 0 {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	view, err := h.wishlistService.Add(r.Context(), session(w, r), req.ProductID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *HTTPHandler) InWishlist(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)

	ok, err := h.wishlistService.Contains(r.Context(), session(w, r), productID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, WishlistContainsHTTPResponse{ProductID: productID, InWishlist: ok})
}

func (h *HTTPHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID, _ := strconv.ParseInt(mux.Vars(r)["productId"], 10, 64)

	view, err := h.wishlistService.Remove(r.Context(), session(w, r), productID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *HTTPHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		status = http.StatusNotFound
		message = "product not found"
	case errors.Is(err, service.ErrInvalidQuantity):
		status = http.StatusBadRequest
		message = "quantity must be positive"
	case errors.Is(err, service.ErrInvalidSession):
		status = http.StatusBadRequest
		message = "invalid session"
	case errors.Is(err, service.ErrAlreadyInWishlist):
		status = http.StatusConflict
		message = "product already in wishlist"
	default:
		h.logger.Error("request failed", zap.Error(err))
	}

	writeError(w, status, message)
}

// session returns the caller's session id, issuing a new one when the
// request carries none.
func session(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		id = uuid.New().String()
	}
	w.Header().Set(SessionHeader, id)
	return id
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorHTTPResponse{Success: false, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
