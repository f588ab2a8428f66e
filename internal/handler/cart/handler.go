package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	cartService "github.com/veronavoice/concierge/backend/internal/service/cart"
	"github.com/veronavoice/concierge/backend/pkg/utils"
)

// Handler exposes the shopping cart over HTTP for the cart page.
type Handler struct {
	cartSvc *cartService.Service
}

// New creates a cart handler.
func New(cartSvc *cartService.Service) *Handler {
	return &Handler{cartSvc: cartSvc}
}

// RegisterRoutes registers cart routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.handleGetCart)
	r.Post("/cart/items", h.handleAddItem)
	r.Put("/cart/items/{productID}", h.handleSetQuantity)
	r.Delete("/cart/items/{productID}", h.handleRemoveItem)
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	h.respondCart(w, http.StatusOK)
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.ProductID == "" {
		utils.RespondError(w, http.StatusBadRequest, "productId is required")
		return
	}

	if err := h.cartSvc.Add(payload.ProductID, payload.Quantity); err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusCreated)
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID := chi.URLParam(r, "productID")
	if err := h.cartSvc.SetQuantity(productID, payload.Quantity); err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK)
}

func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if err := h.cartSvc.Remove(productID); err != nil {
		h.respondCartError(w, err)
		return
	}
	h.respondCart(w, http.StatusOK)
}

func (h *Handler) respondCart(w http.ResponseWriter, status int) {
	utils.RespondJSON(w, status, map[string]any{
		"items": h.cartSvc.Items(),
		"count": h.cartSvc.Count(),
	})
}

func (h *Handler) respondCartError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, cartService.ErrProductNotFound) || errors.Is(err, cartService.ErrItemNotInCart) {
		status = http.StatusNotFound
	}
	utils.RespondError(w, status, err.Error())
}
