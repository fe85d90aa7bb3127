package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	service service.UserService
	logger  zerolog.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(service service.UserService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger.With().Str("handler", "user").Logger(),
	}
}

// Register handles POST /api/users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var create model.CreateUser
	if err := decodeBody(r, &create); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), &create)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, user.ToResponse())
}

// Login handles POST /api/auth/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var login model.LoginUser
	if err := decodeBody(r, &login); err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp, err := h.service.Login(r.Context(), &login)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /api/users with optional filter parameters.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseUserFilter(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	users, err := h.service.List(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	responses := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	writeJSON(w, http.StatusOK, responses)
}

// GetByID handles GET /api/users/{id}.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// Update handles PUT /api/users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var update model.UpdateUser
	if err := decodeBody(r, &update); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.service.Update(r.Context(), id, &update)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user.ToResponse())
}

// Delete handles DELETE /api/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseUserFilter builds a UserFilter from the query string.
func parseUserFilter(r *http.Request) (model.UserFilter, error) {
	q := r.URL.Query()

	limit, err := queryInt(q, "limit")
	if err != nil {
		return model.UserFilter{}, err
	}
	offset, err := queryInt(q, "offset")
	if err != nil {
		return model.UserFilter{}, err
	}

	return model.UserFilter{
		Username: queryString(q, "username"),
		Email:    queryString(q, "email"),
		Limit:    limit,
		Offset:   offset,
	}, nil
}
