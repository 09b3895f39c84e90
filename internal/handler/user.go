package handler

import (
	"errors"
	"net/http"

	"github.com/practicelog/practicelog/internal/ctxkeys"
	"github.com/practicelog/practicelog/internal/service"
)

type userPatchRequest struct {
	Email    *string `json:"email" validate:"omitempty,max=254"`
	Password *string `json:"password"`
}

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req userPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.userService.Update(user.ID, service.UserPatch{
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeDetail(w, http.StatusBadRequest, codeUpdateUserEmailExists)
	case errors.Is(err, service.ErrInvalidPassword):
		writeDetail(w, http.StatusBadRequest, codedDetail{Code: codeUpdateUserInvalidPassword, Reason: reason(err)})
	case errors.Is(err, service.ErrInvalidEmail):
		writeDetail(w, http.StatusUnprocessableEntity, []fieldIssue{{
			Loc:  []string{"body", "email"},
			Msg:  "must be a valid email address",
			Type: "value_error",
		}})
	case err != nil:
		writeServiceError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, updated)
	}
}
