package tables

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

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTableNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, ErrNumberTaken), errors.Is(err, ErrTableOccupied):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "validation"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
	}
}

//
// --------------------------------------------------
// POST /tables   GET /tables   GET /tables/:id   DELETE /tables/:id
// --------------------------------------------------
//

func (h *Handler) Create(c *gin.Context) {
	var req struct {
		Number  int    `json:"number" binding:"required"`
		Seats   int    `json:"seats" binding:"required"`
		Section string `json:"section"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "number and seats are required", "kind": "validation"})
		return
	}

	t, err := h.service.Create(c.Request.Context(), req.Number, req.Seats, req.Section)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tables"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "table deleted"})
}

//
// --------------------------------------------------
// PATCH /tables/:id/state
// --------------------------------------------------
//

func (h *Handler) SetState(c *gin.Context) {
	var req struct {
		State   string `json:"state" binding:"required"`
		OrderID string `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state is required", "kind": "validation"})
		return
	}

	t, err := h.service.SetState(c.Request.Context(), c.Param("id"), req.State, req.OrderID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
