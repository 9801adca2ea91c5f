package api

import (
	"net/http"

	"github.com/HarshShiyani/fitness-tracker/internal/domain"
)

type userRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (req userRequest) createInput() domain.CreateUserInput {
	return domain.CreateUserInput{
		Name:     deref(req.Name),
		Email:    deref(req.Email),
		Password: deref(req.Password),
		Role:     deref(req.Role),
	}
}

func (req userRequest) updateInput() domain.UpdateUserInput {
	return domain.UpdateUserInput{Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.users.Create(r.Context(), actor, req.createInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "User created successfully", newUserView(user))
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req userRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := h.users.Update(r.Context(), actor, id, req.updateInput())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "User updated successfully", newUserView(user))
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), actor, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "User deleted successfully", nil)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	user, err := h.users.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeData(w, "User fetched successfully", newUserView(user))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.requireActor(w, r)
	if !ok {
		return
	}
	users, err := h.users.List(r.Context(), actor)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}
	writeData(w, "Users fetched successfully", views)
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
