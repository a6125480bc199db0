package payment

import (
	"errors"
	"net/http"

	"rasoi/internal/orders"

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
	case errors.Is(err, ErrTransactionNotFound), errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, ErrOrderAlreadyPaid),
		errors.Is(err, ErrOrderCancelled),
		errors.Is(err, ErrNotPayable),
		errors.Is(err, ErrNothingDue):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "validation"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
	}
}

//
// --------------------------------------------------
// POST /orders/:id/payments
// --------------------------------------------------
//

func (h *Handler) Pay(c *gin.Context) {
	var req struct {
		Tip  float64    `json:"tip"`
		Legs []LegInput `json:"legs" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "legs is required", "kind": "validation"})
		return
	}

	t, err := h.service.Pay(c.Request.Context(), PayInput{
		OrderID:        c.Param("id"),
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
		Tip:            req.Tip,
		Legs:           req.Legs,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	status := http.StatusCreated
	if t.Status == StatusFailed {
		status = http.StatusPaymentRequired
	}
	c.JSON(status, t)
}

//
// --------------------------------------------------
// GET /orders/:id/payments   GET /payments/:id
// --------------------------------------------------
//

func (h *Handler) ListByOrder(c *gin.Context) {
	transactions, err := h.service.ListByOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

//
// --------------------------------------------------
// POST /payments/:id/refund
// --------------------------------------------------
//

func (h *Handler) Refund(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount" binding:"required"`
		Reason string  `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount is required", "kind": "validation"})
		return
	}

	t, err := h.service.Refund(c.Request.Context(), c.Param("id"), req.Amount, req.Reason)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

//
// --------------------------------------------------
// GET /payments/:id/receipt
// --------------------------------------------------
//

func (h *Handler) Receipt(c *gin.Context) {
	r, err := h.service.BuildReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
