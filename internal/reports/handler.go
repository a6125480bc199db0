package reports

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

// dateRange parses ?from=YYYY-MM-DD&to=YYYY-MM-DD. Defaults to the
// last 30 days; to is exclusive, so today is included.
func dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
	to := now.Truncate(24 * time.Hour).AddDate(0, 0, 1)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, want YYYY-MM-DD", "kind": "validation"})
			return from, to, false
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, want YYYY-MM-DD", "kind": "validation"})
			return from, to, false
		}
		to = t.AddDate(0, 0, 1)
	}
	return from, to, true
}

//
// --------------------------------------------------
// GET /reports/summary
// --------------------------------------------------
//

func (h *Handler) Summary(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	s, err := h.repo.Summary(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, s)
}

//
// --------------------------------------------------
// GET /reports/top-items
// --------------------------------------------------
//

func (h *Handler) TopItems(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	items, err := h.repo.TopItems(c.Request.Context(), from, to, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rank items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

//
// --------------------------------------------------
// GET /reports/breakdown?by=category|staff|table|method
// --------------------------------------------------
//

func (h *Handler) Breakdown(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	var (
		rows []BreakdownRow
		err  error
	)
	switch c.DefaultQuery("by", "category") {
	case "category":
		rows, err = h.repo.ByCategory(c.Request.Context(), from, to)
	case "staff":
		rows, err = h.repo.ByStaff(c.Request.Context(), from, to)
	case "table":
		rows, err = h.repo.ByTable(c.Request.Context(), from, to)
	case "method":
		rows, err = h.repo.ByPaymentMethod(c.Request.Context(), from, to)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "by must be category, staff, table or method", "kind": "validation"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build breakdown"})
		return
	}
	c.JSON(http.StatusOK, rows)
}

//
// --------------------------------------------------
// GET /reports/trend
// --------------------------------------------------
//

func (h *Handler) Trend(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}

	points, err := h.repo.DailyTrend(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build trend"})
		return
	}
	c.JSON(http.StatusOK, points)
}
