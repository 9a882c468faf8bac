package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Visionary-Advance/xoco-coffee/internal/domain/schedule"
)

type HoursHandler struct {
	hours schedule.Weekly
	now   func() time.Time
}

func NewHoursHandler(hours schedule.Weekly) *HoursHandler {
	if hours == nil {
		hours = schedule.Default
	}
	return &HoursHandler{hours: hours, now: time.Now}
}

// GetHours returns the advisory status plus the full weekly table. The
// client uses it for display only; submission re-checks server-side.
func (h *HoursHandler) GetHours(c *gin.Context) {
	now := h.now()

	weekly := make(map[string]gin.H, len(h.hours))
	for day, span := range h.hours {
		weekly[day.String()] = gin.H{"open": span.Open, "close": span.Close}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": h.hours.StatusAt(now),
		"hours":  weekly,
	})
}
