package controllers

import (
	"log/slog"
	"net/http"

	"iftargather/internal/delivery/http/helpers"
	"iftargather/internal/delivery/http/middleware"
	"iftargather/internal/domain"
)

type CalendarController struct {
	Logger  *slog.Logger
	Service domain.CalendarService
}

func NewCalendarController(logger *slog.Logger, svc domain.CalendarService) *CalendarController {
	return &CalendarController{
		Logger:  logger,
		Service: svc,
	}
}

// GetCalendar godoc
// @Summary Export the caller's gatherings as iCalendar
// @Description Returns an iCalendar (.ics) feed of the events the user hosts or attends. Hosted and attended copies of the same event are merged into one entry; events with unparseable dates are skipped.
// @Tags calendar
// @Produce text/calendar
// @Security BearerAuth
// @Success 200 {string} string "iCalendar feed"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar.ics [get]
func (c *CalendarController) GetCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	feed, err := c.Service.BuildUserCalendar(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="iftargather.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed))
}
