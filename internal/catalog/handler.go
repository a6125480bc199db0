package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

//
// --------------------------------------------------
// GET /menu/categories
// --------------------------------------------------
//

func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

//
// --------------------------------------------------
// POST /menu/categories
// --------------------------------------------------
//

func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name      string `json:"name"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cat, err := h.service.CreateCategory(c.Request.Context(), req.Name, req.SortOrder)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cat)
}

//
// --------------------------------------------------
// GET /menu/items
// --------------------------------------------------
//

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.service.ListMenuItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

//
// --------------------------------------------------
// POST /menu/items
// --------------------------------------------------
//

func (h *Handler) CreateItem(c *gin.Context) {
	var item MenuItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.CreateMenuItem(c.Request.Context(), &item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

//
// --------------------------------------------------
// PATCH /menu/items/:id/availability
// --------------------------------------------------
//

func (h *Handler) ToggleAvailability(c *gin.Context) {
	item, err := h.service.ToggleAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

//
// --------------------------------------------------
// GET /menu/items/:id/modifiers
// --------------------------------------------------
//

func (h *Handler) ListModifiers(c *gin.Context) {
	mods, err := h.service.ListModifiers(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"modifiers": mods})
}

//
// --------------------------------------------------
// POST /menu/items/:id/modifiers
// --------------------------------------------------
//

func (h *Handler) AddModifier(c *gin.Context) {
	var req struct {
		Name       string  `json:"name"`
		PriceDelta float64 `json:"price_delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	mod, err := h.service.AddModifier(c.Request.Context(), c.Param("id"), req.Name, req.PriceDelta)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, mod)
}

//
// --------------------------------------------------
// POST /menu/items/:id/image
// --------------------------------------------------
//

func (h *Handler) UploadItemImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer file.Close()

	url, err := h.service.UploadItemImage(
		c.Request.Context(),
		c.Param("id"),
		file,
		fileHeader.Filename,
	)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrItemNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
