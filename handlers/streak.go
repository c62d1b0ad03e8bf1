package handlers

import (
	"errors"
	"net/http"
	"time"

	"habittracker/services/streak"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StreakHandler serves streak reports.
type StreakHandler struct {
	Streaks streak.StreakService
}

func NewStreakHandler(svc streak.StreakService) *StreakHandler {
	return &StreakHandler{Streaks: svc}
}

// CurrentStreakHandler handles GET /api/current?timezone=US/Pacific.
func (h *StreakHandler) CurrentStreakHandler(c *gin.Context) {
	h.serveReport(c, streak.KindCurrent)
}

// PreviousStreakHandler handles GET /api/previous?timezone=US/Pacific.
func (h *StreakHandler) PreviousStreakHandler(c *gin.Context) {
	h.serveReport(c, streak.KindPrevious)
}

func (h *StreakHandler) serveReport(c *gin.Context, kind streak.Kind) {
	loc, ok := requireLocation(c)
	if !ok {
		return
	}

	report, err := h.Streaks.Report(c.Request.Context(), loc, kind)
	if err != nil {
		getLogger(c).Error("Data access error in API fetch", zap.String("kind", string(kind)), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "data fetch error: "+err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, report)
}

// requireLocation parses the timezone query parameter, writing a 400 when
// it is missing or unknown.
func requireLocation(c *gin.Context) (*time.Location, bool) {
	loc, err := streak.LoadLocation(c.Query("timezone"))
	if err != nil {
		if !errors.Is(err, streak.ErrInvalidTimezone) {
			getLogger(c).Warn("Unexpected timezone error", zap.Error(err))
		}
		utils.JSONError(c, http.StatusBadRequest, "invalid timezone", "")
		return nil, false
	}
	return loc, true
}
