package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/haneulclass/saengibu-backend/internal/keyword"
)

type KeywordHandler struct {
	catalog *keyword.Catalog
}

func NewKeywordHandler(catalog *keyword.Catalog) *KeywordHandler {
	return &KeywordHandler{catalog: catalog}
}

// GET /api/keywords
func (h *KeywordHandler) ListCategories(c *gin.Context) {
	RespondOK(c, gin.H{"categories": h.catalog.Categories()})
}

// GET /api/keywords/combinations
func (h *KeywordHandler) ListCombinations(c *gin.Context) {
	RespondOK(c, gin.H{"combinations": h.catalog.Combinations()})
}
