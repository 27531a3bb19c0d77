package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xuefei993/renewables/internal/catalog"
)

// CatalogHandler serves the equipment catalog
type CatalogHandler struct {
	source catalog.Source
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(source catalog.Source) *CatalogHandler {
	log.Printf("CatalogHandler: Using catalog source: %s", source.Name())
	return &CatalogHandler{source: source}
}

// GetCatalog handles GET /api/v1/catalog
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	cat, err := catalog.LoadAll(c.Request.Context(), h.source)
	if err != nil {
		log.Printf("CatalogHandler: load failed: %v", err)
		respondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}
