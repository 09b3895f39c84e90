package handler

import (
	"net/http"

	"github.com/practicelog/practicelog/internal/ctxkeys"
	"github.com/practicelog/practicelog/internal/service"
)

type DashboardHandler struct {
	goalService *service.GoalService
}

func NewDashboardHandler(goalService *service.GoalService) *DashboardHandler {
	return &DashboardHandler{
		goalService: goalService,
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summary, err := h.goalService.Summary(user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
