package handler

import (
	"net/http"
	"time"

	"tiendapos/internal/apierror"
	"tiendapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct{ svc service.ReportService }

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Profit returns the sales/profit summary for a date range.
// Query params from/to are YYYY-MM-DD; defaults to the last 7 days.
// `to` is inclusive — the whole day counts.
func (h *ReportHandler) Profit(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -7)
	to := now

	if v := c.Query("from"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid from date, expected YYYY-MM-DD"))
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid to date, expected YYYY-MM-DD"))
			return
		}
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, apierror.New("to must not be before from"))
		return
	}

	resp, err := h.svc.ProfitSummary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
