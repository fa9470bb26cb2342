package handlers

import (
	"net/http"

	"github.com/yuehlin/agritrend/internal/catalog"
	"github.com/yuehlin/agritrend/pkg/logger"
)

// CatalogHandler serves the commodity and market catalogues.
type CatalogHandler struct {
	logger *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{logger: log}
}

// GetCommodities returns the commodity catalogue
// GET /api/catalog/commodities
func (h *CatalogHandler) GetCommodities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"commodities": catalog.Commodities(),
	})
}

// GetMarkets returns the known wholesale-market labels
// GET /api/catalog/markets
func (h *CatalogHandler) GetMarkets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"markets": catalog.Markets(),
	})
}
