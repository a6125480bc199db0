package inventory

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrSupplierNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "validation"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
	}
}

//
// --------------------------------------------------
// Items: CRUD and stock operations
// --------------------------------------------------
//

func (h *Handler) CreateItem(c *gin.Context) {
	var item Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	if err := h.service.CreateItem(c.Request.Context(), &item); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.service.ListItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.service.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	if err := h.service.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

func (h *Handler) AddStock(c *gin.Context) {
	var req struct {
		Quantity  float64 `json:"quantity"`
		Reference string  `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	item, err := h.service.AddStock(c.Request.Context(), c.Param("id"), req.Quantity, req.Reference)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) RecordWaste(c *gin.Context) {
	var req struct {
		Quantity float64 `json:"quantity"`
		Reason   string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	item, err := h.service.RecordWaste(c.Request.Context(), c.Param("id"), req.Quantity, req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) AdjustStock(c *gin.Context) {
	var req struct {
		NewLevel float64 `json:"new_level"`
		Reason   string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	item, err := h.service.AdjustStock(c.Request.Context(), c.Param("id"), req.NewLevel, req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) ListMovements(c *gin.Context) {
	movements, err := h.service.ListMovements(c.Request.Context(), c.Query("item_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list movements"})
		return
	}
	c.JSON(http.StatusOK, movements)
}

//
// --------------------------------------------------
// Recipes
// --------------------------------------------------
//

func (h *Handler) SetRecipe(c *gin.Context) {
	var req struct {
		Ingredients []RecipeIngredient `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	menuItemID := c.Param("menuItemId")
	if err := h.service.SetRecipe(c.Request.Context(), menuItemID, req.Ingredients); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "recipe saved"})
}

func (h *Handler) GetRecipe(c *gin.Context) {
	recipe, err := h.service.GetRecipe(c.Request.Context(), c.Param("menuItemId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

//
// --------------------------------------------------
// Alerts, suggestions, valuation
// --------------------------------------------------
//

func (h *Handler) LowStock(c *gin.Context) {
	items, err := h.service.LowStockItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list low stock"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) ReorderSuggestions(c *gin.Context) {
	suggestions, err := h.service.ReorderSuggestions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute suggestions"})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

func (h *Handler) Expiring(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	items, err := h.service.ExpiringItems(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list expiring items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Valuation(c *gin.Context) {
	total, err := h.service.Valuation(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute valuation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_value": total})
}

//
// --------------------------------------------------
// Suppliers
// --------------------------------------------------
//

func (h *Handler) CreateSupplier(c *gin.Context) {
	var s Supplier
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	if err := h.service.CreateSupplier(c.Request.Context(), &s); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *Handler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.service.ListSuppliers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}
