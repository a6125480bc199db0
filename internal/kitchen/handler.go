package kitchen

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
	case errors.Is(err, ErrTicketNotFound), errors.Is(err, ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "kind": "validation"})
	case errors.Is(err, ErrAlreadyDone):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "kind": "validation"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
	}
}

//
// --------------------------------------------------
// GET /kitchen/tickets
// --------------------------------------------------
//

func (h *Handler) List(c *gin.Context) {
	if c.Query("overdue") == "true" {
		c.JSON(http.StatusOK, h.service.Overdue(c.Query("station")))
		return
	}
	c.JSON(http.StatusOK, h.service.List(c.Query("station")))
}

//
// --------------------------------------------------
// POST /kitchen/tickets/:id/start
// --------------------------------------------------
//

func (h *Handler) Start(c *gin.Context) {
	t, err := h.service.Start(c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

//
// --------------------------------------------------
// POST /kitchen/tickets/:id/items/:lineId/done
// --------------------------------------------------
//

func (h *Handler) CompleteItem(c *gin.Context) {
	t, err := h.service.CompleteItem(c.Request.Context(), c.Param("id"), c.Param("lineId"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

//
// --------------------------------------------------
// POST /kitchen/tickets/:id/complete
// --------------------------------------------------
//

func (h *Handler) CompleteTicket(c *gin.Context) {
	t, err := h.service.CompleteTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
