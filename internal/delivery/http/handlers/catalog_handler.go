package handlers

import (
	"net/http"

	"github.com/mveldsman/storefront-service/internal/domain"
	"github.com/mveldsman/storefront-service/internal/usecase"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase}
}

type productResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Price       string   `json:"price"`
	Stock       int64    `json:"stock"`
	Variants    []string `json:"variants,omitempty"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       domain.FormatCents(p.PriceCents),
		Stock:       p.Stock,
		Variants:    p.Variants,
	}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogUsecase.ListProducts()
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUsecase.GetProduct(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}
