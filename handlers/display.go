package handlers

import (
	"net/http"
	"time"

	"habittracker/services/display"
	"habittracker/services/streak"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DisplayHandler renders the device screen for browsers.
type DisplayHandler struct {
	Streaks  streak.StreakService
	Location *time.Location // used when no timezone is given

	// Screen, when set, is served as-is for requests without a timezone so
	// the browser sees exactly what the device shows.
	Screen *display.ImageDisplay
}

func NewDisplayHandler(svc streak.StreakService, loc *time.Location) *DisplayHandler {
	return &DisplayHandler{Streaks: svc, Location: loc}
}

// DisplayImageHandler handles GET /api/display.png.
func (h *DisplayHandler) DisplayImageHandler(c *gin.Context) {
	var (
		png []byte
		err error
	)
	switch {
	case c.Query("timezone") != "":
		loc, ok := requireLocation(c)
		if !ok {
			return
		}
		png, err = h.render(c, loc)
	case h.Screen != nil:
		png, err = display.EncodePNG(h.Screen.Frame())
	default:
		png, err = h.render(c, h.Location)
	}
	if err != nil {
		getLogger(c).Error("Failed to render display", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to render display", "")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *DisplayHandler) render(c *gin.Context, loc *time.Location) ([]byte, error) {
	ctx := c.Request.Context()
	current, err := h.Streaks.Current(ctx, loc)
	if err != nil {
		return nil, err
	}
	previous, err := h.Streaks.Previous(ctx, loc)
	if err != nil {
		return nil, err
	}
	return display.EncodePNG(display.RenderFrame(loc, current, previous))
}
