package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"habittracker/models"
	"habittracker/services/streak"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EventRecorder stores an event and brings the device up to date.
type EventRecorder interface {
	Record(ctx context.Context, name string) (models.Event, error)
}

type EventHandler struct {
	Recorder EventRecorder
	Streaks  streak.StreakService
}

func NewEventHandler(recorder EventRecorder, svc streak.StreakService) *EventHandler {
	return &EventHandler{Recorder: recorder, Streaks: svc}
}

// RecordEventHandler handles POST /api/events. The JSON body is optional.
func (h *EventHandler) RecordEventHandler(c *gin.Context) {
	logger := getLogger(c)

	var input models.EventInput
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		logger.Warn("Invalid event request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	ev, err := h.Recorder.Record(c.Request.Context(), input.Name)
	if err != nil {
		logger.Error("Failed to record event", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to record event", "")
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// ListEventsHandler handles GET /api/events?limit=N.
func (h *EventHandler) ListEventsHandler(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			utils.JSONError(c, http.StatusBadRequest, "limit must be a positive integer", "")
			return
		}
		limit = n
	}

	events, err := h.Streaks.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		getLogger(c).Error("Failed to list events", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "data fetch error: "+err.Error(), "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}
