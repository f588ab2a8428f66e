package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	catalogModel "github.com/veronavoice/concierge/backend/internal/model/catalog"
	"github.com/veronavoice/concierge/backend/pkg/utils"
)

// Handler serves the product catalog and the FAQ list.
type Handler struct {
	store *catalogModel.Store
}

// New creates a catalog handler.
func New(store *catalogModel.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.handleListProducts)
	r.Get("/products/{productID}", h.handleGetProduct)
	r.Get("/faqs", h.handleListFaqs)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Products())
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	product, ok := h.store.FindProduct(productID)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}

func (h *Handler) handleListFaqs(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Faqs())
}
