package orders

import (
	"errors"
	"net/http"

	"rasoi/internal/cart"
	"rasoi/internal/inventory"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	carts   *cart.Store
}

func NewHandler(service *Service, carts *cart.Store) *Handler {
	return &Handler{service: service, carts: carts}
}

func respondErr(c *gin.Context, err error) {
	var invalid *InvalidTransitionError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusConflict, gin.H{"error": invalid.Error(), "kind": "invalid_transition"})
		return
	}

	var insufficient *inventory.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      insufficient.Error(),
			"kind":       "insufficient_stock",
			"shortfalls": insufficient.Shortfalls,
		})
		return
	}

	switch {
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, ErrOrderNotActive),
		errors.Is(err, ErrMergeConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "validation"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
	}
}

//
// --------------------------------------------------
// POST /orders  (checkout the caller's cart)
// --------------------------------------------------
//

func (h *Handler) Create(c *gin.Context) {
	var req struct {
		TableID string `json:"table_id"`
		Type    string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	// Reject a bad order type before touching the cart; checkout
	// destroys it.
	orderType, err := NormalizeType(req.Type)
	if err != nil {
		respondErr(c, err)
		return
	}

	userID, _ := c.Get("userID")
	waiterID, _ := userID.(string)

	session := cartSession(c)
	lines, discount, _, err := h.carts.Checkout(session)
	if err != nil {
		respondErr(c, err)
		return
	}

	o, err := h.service.Create(c.Request.Context(), CreateInput{
		IdempotencyKey:    c.GetHeader("Idempotency-Key"),
		TableID:           req.TableID,
		WaiterID:          waiterID,
		Type:              orderType,
		Lines:             lines,
		Discount:          discount,
		TaxRate:           h.carts.TaxRate(),
		ServiceChargeRate: h.carts.ServiceChargeRate(),
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, o)
}

func cartSession(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(string)
	if terminal := c.GetHeader("X-Terminal-ID"); terminal != "" {
		return id + ":" + terminal
	}
	return id
}

//
// --------------------------------------------------
// GET /orders   GET /orders/:id
// --------------------------------------------------
//

func (h *Handler) List(c *gin.Context) {
	var out []*Order
	var err error

	if status := c.Query("status"); status != "" {
		out, err = h.service.List(c.Request.Context(), status)
	} else if c.Query("active") == "true" {
		out, err = h.service.ListActive(c.Request.Context())
	} else {
		out, err = h.service.List(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) Get(c *gin.Context) {
	o, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

//
// --------------------------------------------------
// POST /orders/:id/transition
// --------------------------------------------------
//

func (h *Handler) Transition(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required", "kind": "validation"})
		return
	}

	o, err := h.service.Transition(c.Request.Context(), c.Param("id"), req.Status, req.Note)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

//
// --------------------------------------------------
// POST /orders/:id/lines   PATCH /orders/:id/lines/:lineId
// --------------------------------------------------
//

func (h *Handler) AddLine(c *gin.Context) {
	var line cart.Line
	if err := c.ShouldBindJSON(&line); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	o, err := h.service.AddLine(c.Request.Context(), c.Param("id"), &line)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) SetLineQuantity(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	o, err := h.service.SetLineQuantity(c.Request.Context(), c.Param("id"), c.Param("lineId"), req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

//
// --------------------------------------------------
// POST /orders/:id/split
// --------------------------------------------------
//

func (h *Handler) Split(c *gin.Context) {
	var req struct {
		LineIDs []string `json:"line_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "line_ids is required", "kind": "validation"})
		return
	}

	src, dst, err := h.service.Split(c.Request.Context(), c.Param("id"), req.LineIDs)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": src, "split": dst})
}

//
// --------------------------------------------------
// POST /orders/:id/merge
// --------------------------------------------------
//

func (h *Handler) Merge(c *gin.Context) {
	var req struct {
		SourceOrderID string `json:"source_order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_order_id is required", "kind": "validation"})
		return
	}

	o, err := h.service.Merge(c.Request.Context(), c.Param("id"), req.SourceOrderID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

//
// --------------------------------------------------
// POST /orders/:id/transfer
// --------------------------------------------------
//

func (h *Handler) Transfer(c *gin.Context) {
	var req struct {
		TableID string `json:"table_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table_id is required", "kind": "validation"})
		return
	}

	o, err := h.service.Transfer(c.Request.Context(), c.Param("id"), req.TableID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}
