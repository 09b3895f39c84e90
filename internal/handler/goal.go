package handler

import (
	"net/http"

	"github.com/practicelog/practicelog/internal/ctxkeys"
	"github.com/practicelog/practicelog/internal/repository"
	"github.com/practicelog/practicelog/internal/service"
)

type goalRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Complete    bool    `json:"complete"`
}

type goalPatchRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Complete    *bool   `json:"complete"`
}

var goalSorts = map[string]bool{
	repository.GoalSortRecent:   true,
	repository.GoalSortComplete: true,
	repository.GoalSortTitle:    true,
}

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = repository.GoalSortRecent
	}
	if !goalSorts[sortBy] {
		writeDetail(w, http.StatusUnprocessableEntity, []fieldIssue{{
			Loc:  []string{"query", "sort"},
			Msg:  "must be one of recent, complete, title",
			Type: "value_error",
		}})
		return
	}

	goals, err := h.goalService.Goals(user.ID, sortBy)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal, err := h.goalService.Create(user.ID, service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Complete:    req.Complete,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Replace(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal, err := h.goalService.Replace(user.ID, r.PathValue("id"), service.GoalInput{
		Title:       req.Title,
		Description: req.Description,
		Complete:    req.Complete,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req goalPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal, err := h.goalService.Patch(user.ID, r.PathValue("id"), service.GoalPatch{
		Title:       req.Title,
		Description: req.Description,
		Complete:    req.Complete,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	sessions, err := h.goalService.Sessions(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}
