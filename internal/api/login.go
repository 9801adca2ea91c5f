package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/HarshShiyani/fitness-tracker/internal/access"
	"github.com/HarshShiyani/fitness-tracker/internal/auth"
	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned without the envelope.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expiresAt"`
	Roles     []access.Role `json:"roles"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeError(w, r, h.logger, err)
		return
	}
	issued, err := auth.Issue(*user, h.tokens, time.Now())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.logger.Info("user logged in", "user_id", user.ID)
	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt.UnixMilli(),
		Roles:     []access.Role{user.Role},
	})
}
