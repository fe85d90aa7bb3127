package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var create model.CreateProduct
	if err := decodeBody(r, &create); err != nil {
		respondError(w, h.logger, err)
		return
	}

	product, err := h.service.Create(r.Context(), &create)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// List handles GET /api/products with optional filter parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var update model.UpdateProduct
	if err := decodeBody(r, &update); err != nil {
		respondError(w, h.logger, err)
		return
	}

	product, err := h.service.Update(r.Context(), id, &update)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, model.NewBadRequest("invalid id in path")
	}
	return id, nil
}

// parseProductFilter builds a ProductFilter from the query string.
func parseProductFilter(r *http.Request) (model.ProductFilter, error) {
	q := r.URL.Query()

	minPrice, err := queryFloat(q, "min_price")
	if err != nil {
		return model.ProductFilter{}, err
	}
	maxPrice, err := queryFloat(q, "max_price")
	if err != nil {
		return model.ProductFilter{}, err
	}
	isActive, err := queryBool(q, "is_active")
	if err != nil {
		return model.ProductFilter{}, err
	}
	limit, err := queryInt(q, "limit")
	if err != nil {
		return model.ProductFilter{}, err
	}
	offset, err := queryInt(q, "offset")
	if err != nil {
		return model.ProductFilter{}, err
	}

	return model.ProductFilter{
		Name:     queryString(q, "name"),
		Category: queryString(q, "category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		IsActive: isActive,
		Limit:    limit,
		Offset:   offset,
	}, nil
}
