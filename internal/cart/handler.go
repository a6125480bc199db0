package cart

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// sessionID scopes a cart to the authenticated staff member plus an
// optional terminal header, so two terminals under one login do not
// share a cart.
func sessionID(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(string)
	if terminal := c.GetHeader("X-Terminal-ID"); terminal != "" {
		return id + ":" + terminal
	}
	return id
}

func errStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownLine):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrUnknownDiscount),
		errors.Is(err, ErrDiscountTooLarge),
		errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrItemUnavailable):
		return http.StatusBadRequest
	}
	return http.StatusBadRequest
}

//
// --------------------------------------------------
// GET /cart
// --------------------------------------------------
//

func (h *Handler) Get(c *gin.Context) {
	snapshot, totals := h.store.Snapshot(sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"cart":   snapshot,
		"totals": totals.Rounded(),
	})
}

//
// --------------------------------------------------
// POST /cart/lines
// --------------------------------------------------
//

func (h *Handler) AddLine(c *gin.Context) {
	var req struct {
		MenuItemID  string   `json:"menu_item_id"`
		Quantity    int      `json:"quantity"`
		ModifierIDs []string `json:"modifier_ids"`
		Note        string   `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	line, err := h.store.AddLine(
		c.Request.Context(),
		sessionID(c),
		req.MenuItemID,
		req.Quantity,
		req.ModifierIDs,
		req.Note,
	)
	if err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	c.JSON(http.StatusCreated, line)
}

//
// --------------------------------------------------
// PATCH /cart/lines/:lineId
// --------------------------------------------------
//

func (h *Handler) SetLineQuantity(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	if err := h.store.SetLineQuantity(sessionID(c), c.Param("lineId"), req.Quantity); err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error(), "kind": "validation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line updated"})
}

//
// --------------------------------------------------
// DELETE /cart/lines/:lineId
// --------------------------------------------------
//

func (h *Handler) RemoveLine(c *gin.Context) {
	if err := h.store.RemoveLine(sessionID(c), c.Param("lineId")); err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error(), "kind": "validation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line removed"})
}

//
// --------------------------------------------------
// POST /cart/discount
// --------------------------------------------------
//

func (h *Handler) ApplyDiscount(c *gin.Context) {
	var d Discount
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "kind": "validation"})
		return
	}

	if err := h.store.ApplyDiscount(sessionID(c), d); err != nil {
		c.JSON(errStatus(err), gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	_, totals := h.store.Snapshot(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"totals": totals.Rounded()})
}

//
// --------------------------------------------------
// DELETE /cart/discount
// --------------------------------------------------
//

func (h *Handler) RemoveDiscount(c *gin.Context) {
	h.store.RemoveDiscount(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"message": "discount removed"})
}

//
// --------------------------------------------------
// DELETE /cart
// --------------------------------------------------
//

func (h *Handler) Clear(c *gin.Context) {
	h.store.Clear(sessionID(c))
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}
