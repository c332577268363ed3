package controllers

import (
	"net/http"

	authz "github.com/wurt83ow/worktravel/internal/authorization"
	"github.com/wurt83ow/worktravel/internal/models"
	"go.uber.org/zap"
)

// @Summary Login
// @Description Authenticate with username or email and get a JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.Credentials true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /api/auth/login [post]
func (h *BaseController) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !h.decode(w, r, &creds) {
		return
	}

	resp, err := h.service.Login(creds)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	http.SetCookie(w, h.authz.AuthCookie(authz.CookieName, resp.Token))
	w.Header().Set("Authorization", "Bearer "+resp.Token)

	h.writeJSON(w, http.StatusOK, resp)
	h.log.Info("user logged in", zap.String("user_id", resp.User.ID))
}

// @Summary Get profile
// @Tags Profile
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {string} string "Unauthorized"
// @Router /api/profile [get]
func (h *BaseController) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	user, err := h.service.Profile(actor)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

// @Summary Update profile
// @Description Change the caller's email, name or password
// @Tags Profile
// @Accept json
// @Produce json
// @Param patch body models.UserPatch true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/profile [patch]
func (h *BaseController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var patch models.UserPatch
	if !h.decode(w, r, &patch) {
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), actor, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

// @Summary Get users
// @Tags User
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {string} string "Forbidden"
// @Router /api/users [get]
func (h *BaseController) GetUsers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.ListUsers())
}

// @Summary Add user
// @Description Create an account. Only a super admin may create another super admin.
// @Tags User
// @Accept json
// @Produce json
// @Param user body models.UserRequest true "User Info"
// @Success 201 {object} models.User
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/users [post]
func (h *BaseController) AddUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req models.UserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.CreateUser(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, user)
}

// @Summary Update user
// @Tags User
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param patch body models.UserPatch true "Fields to change"
// @Success 200 {object} models.User
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/users/{id} [patch]
func (h *BaseController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var patch models.UserPatch
	if !h.decode(w, r, &patch) {
		return
	}

	user, err := h.service.UpdateUser(r.Context(), actor, urlParam(r, "id"), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, user)
}

// @Summary Delete user
// @Description Delete a user together with their workdays
// @Tags User
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/users/{id} [delete]
func (h *BaseController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actor, urlParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent) // 204
}

// @Summary List roles
// @Description Built-in roles with their permissions, then custom roles
// @Tags Role
// @Produce json
// @Success 200 {array} models.Role
// @Failure 401 {string} string "Unauthorized"
// @Router /api/roles [get]
func (h *BaseController) GetRoles(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.ListRoles())
}

// @Summary Create custom role
// @Description Super admin only
// @Tags Role
// @Accept json
// @Produce json
// @Param role body models.RoleRequest true "Role"
// @Success 201 {object} models.Role
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/roles [post]
func (h *BaseController) AddRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req models.RoleRequest
	if !h.decode(w, r, &req) {
		return
	}

	role, err := h.service.CreateRole(r.Context(), actor, req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, role)
}
