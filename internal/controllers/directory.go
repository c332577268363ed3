package controllers

import (
	"net/http"

	"github.com/wurt83ow/worktravel/internal/models"
)

// @Summary Get cities
// @Tags City
// @Produce json
// @Success 200 {array} models.City
// @Router /api/cities [get]
func (h *BaseController) GetCities(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.ListCities())
}

// @Summary Add city
// @Tags City
// @Accept json
// @Produce json
// @Param city body models.City true "City"
// @Success 201 {object} models.City
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /api/cities [post]
func (h *BaseController) AddCity(w http.ResponseWriter, r *http.Request) {
	var city models.City
	if !h.decode(w, r, &city) {
		return
	}

	city, err := h.service.CreateCity(r.Context(), city)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, city)
}

// @Summary Replace city
// @Description Existing workdays keep the values they were derived with
// @Tags City
// @Accept json
// @Produce json
// @Param name path string true "City name"
// @Param city body models.City true "City"
// @Success 200 {object} models.City
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/cities/{name} [put]
func (h *BaseController) ReplaceCity(w http.ResponseWriter, r *http.Request) {
	var city models.City
	if !h.decode(w, r, &city) {
		return
	}

	city, err := h.service.ReplaceCity(r.Context(), urlParam(r, "name"), city)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, city)
}

// @Summary Delete city
// @Tags City
// @Param name path string true "City name"
// @Success 204
// @Failure 404 {object} errorResponse
// @Failure 409 {object} errorResponse "City in use"
// @Router /api/cities/{name} [delete]
func (h *BaseController) DeleteCity(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteCity(r.Context(), urlParam(r, "name")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent) // 204
}

// @Summary Get settings
// @Tags Settings
// @Produce json
// @Success 200 {object} models.Settings
// @Router /api/settings [get]
func (h *BaseController) GetSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.GetSettings())
}

// @Summary Replace settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param settings body models.Settings true "Settings"
// @Success 200 {object} models.Settings
// @Failure 400 {object} errorResponse
// @Router /api/settings [put]
func (h *BaseController) ReplaceSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if !h.decode(w, r, &settings) {
		return
	}

	settings, err := h.service.ReplaceSettings(r.Context(), settings)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, settings)
}
