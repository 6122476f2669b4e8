package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ndenisov/showcase/internal/common"
	"github.com/ndenisov/showcase/internal/server/models"
	"github.com/ndenisov/showcase/internal/server/services"
)

// AuthHandler serves registration, login and account lookups.
type AuthHandler struct {
	Users *services.Users
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

func toAuthResponse(u *models.User, token string) authResponse {
	return authResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Token: token}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := h.Users.Register(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		status, msg := errorStatus(err, "User not found")
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusCreated, toAuthResponse(user, token))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, token, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		status, msg := errorStatus(err, "User not found")
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, toAuthResponse(user, token))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	if u == nil {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		status, msg := errorStatus(err, "User not found")
		writeMessage(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
