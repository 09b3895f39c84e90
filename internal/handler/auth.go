package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/practicelog/practicelog/internal/service"
)

const (
	codeRegisterUserAlreadyExists    = "REGISTER_USER_ALREADY_EXISTS"
	codeRegisterInvalidPassword      = "REGISTER_INVALID_PASSWORD"
	codeLoginBadCredentials          = "LOGIN_BAD_CREDENTIALS"
	codeVerifyUserBadToken           = "VERIFY_USER_BAD_TOKEN"
	codeVerifyUserAlreadyVerified    = "VERIFY_USER_ALREADY_VERIFIED"
	codeResetPasswordBadToken        = "RESET_PASSWORD_BAD_TOKEN"
	codeResetPasswordInvalidPassword = "RESET_PASSWORD_INVALID_PASSWORD"
	codeUpdateUserEmailExists        = "UPDATE_USER_EMAIL_ALREADY_EXISTS"
	codeUpdateUserInvalidPassword    = "UPDATE_USER_INVALID_PASSWORD"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

type emailRequest struct {
	Email string `json:"email" validate:"required,max=254"`
}

type tokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(req.Email, req.Password)
	switch {
	case errors.Is(err, service.ErrEmailAlreadyExists):
		writeDetail(w, http.StatusBadRequest, codeRegisterUserAlreadyExists)
	case errors.Is(err, service.ErrInvalidPassword):
		writeDetail(w, http.StatusBadRequest, codedDetail{Code: codeRegisterInvalidPassword, Reason: reason(err)})
	case errors.Is(err, service.ErrInvalidEmail):
		writeDetail(w, http.StatusUnprocessableEntity, []fieldIssue{{
			Loc:  []string{"body", "email"},
			Msg:  "must be a valid email address",
			Type: "value_error",
		}})
	case err != nil:
		writeServiceError(w, r, err)
	default:
		writeJSON(w, http.StatusCreated, user)
	}
}

// Login accepts the OAuth2 password form (username, password) or the same
// fields as JSON.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
		if req.Username == "" || req.Password == "" {
			writeDetail(w, http.StatusUnprocessableEntity, []fieldIssue{{
				Loc:  []string{"body"},
				Msg:  "username and password are required",
				Type: "value_error",
			}})
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	email := req.Username
	if email == "" {
		email = req.Email
	}

	user, err := h.authService.Login(email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		writeDetail(w, http.StatusBadRequest, codeLoginBadCredentials)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, accessTokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Logout has nothing to revoke for stateless bearer tokens.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) RequestVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.RequestVerification(req.Email)
	if err != nil {
		slog.Error("failed to request verification", "error", err)
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Verify(req.Token)
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		writeDetail(w, http.StatusBadRequest, codeVerifyUserBadToken)
	case errors.Is(err, service.ErrAlreadyVerified):
		writeDetail(w, http.StatusBadRequest, codeVerifyUserAlreadyVerified)
	case err != nil:
		writeServiceError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, user)
	}
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.authService.ForgotPassword(req.Email)
	if err != nil {
		slog.Error("failed to start password reset", "error", err)
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	_, err := h.authService.ResetPassword(req.Token, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidToken):
		writeDetail(w, http.StatusBadRequest, codeResetPasswordBadToken)
	case errors.Is(err, service.ErrInvalidPassword):
		writeDetail(w, http.StatusBadRequest, codedDetail{Code: codeResetPasswordInvalidPassword, Reason: reason(err)})
	case err != nil:
		writeServiceError(w, r, err)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

// reason strips the sentinel prefix from a wrapped password error.
func reason(err error) string {
	return strings.TrimPrefix(err.Error(), service.ErrInvalidPassword.Error()+": ")
}
