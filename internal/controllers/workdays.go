package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/service"
	"go.uber.org/zap"
)

// owner resolves whose workday a write request targets: the caller, or the
// user_id query parameter when the caller has an administrative role.
func (h *BaseController) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	actor, ok := h.actor(w, r)
	if !ok {
		return "", false
	}

	id := r.URL.Query().Get("user_id")
	if id == "" || id == actor.ID {
		return actor.ID, true
	}

	if !models.IsAdminRole(actor.Role) {
		h.writeError(w, r, service.ErrForbidden)
		return "", false
	}

	return id, true
}

// @Summary Get workdays
// @Description Workdays of a month; administrative roles see every user unless user_id is set
// @Tags Workday
// @Produce json
// @Param month query int false "Month"
// @Param year query int false "Year"
// @Param user_id query string false "User ID"
// @Success 200 {array} models.Workday
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /api/workdays [get]
func (h *BaseController) GetWorkdays(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}

	month, year, ok := monthYear(r)
	if !ok {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid month or year"})
		return
	}

	wds, err := h.service.ListWorkdays(actor, month, year, r.URL.Query().Get("user_id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, wds)
}

// @Summary Save workday
// @Description Create or update the day of the payload date. With strict=true an existing day is a conflict.
// @Tags Workday
// @Accept json
// @Produce json
// @Param workday body models.WorkdayPayload true "Workday"
// @Param strict query bool false "Fail when the day exists"
// @Param user_id query string false "User ID (administrative roles)"
// @Success 200 {object} models.Workday
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse "City not found"
// @Failure 409 {object} errorResponse
// @Router /api/workdays [post]
func (h *BaseController) UpsertWorkday(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var payload models.WorkdayPayload
	if !h.decode(w, r, &payload) {
		return
	}

	save := h.service.UpsertWorkday
	if strict, _ := strconv.ParseBool(r.URL.Query().Get("strict")); strict {
		save = h.service.CreateWorkday
	}

	wd, err := save(r.Context(), userID, payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, wd)
}

// @Summary Get workday
// @Tags Workday
// @Produce json
// @Param date path string true "Date, YYYY-MM-DD or DD/MM/YYYY"
// @Param user_id query string false "User ID (administrative roles)"
// @Success 200 {object} models.Workday
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/workdays/{date} [get]
func (h *BaseController) GetWorkday(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	wd, err := h.service.GetWorkday(userID, urlParam(r, "date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, wd)
}

// @Summary Update workday
// @Description Update an existing day; the path date wins over the payload date
// @Tags Workday
// @Accept json
// @Produce json
// @Param date path string true "Date, YYYY-MM-DD or DD/MM/YYYY"
// @Param workday body models.WorkdayPayload true "Workday"
// @Success 200 {object} models.Workday
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/workdays/{date} [put]
func (h *BaseController) UpdateWorkday(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	var payload models.WorkdayPayload
	if !h.decode(w, r, &payload) {
		return
	}

	wd, err := h.service.UpdateWorkday(r.Context(), userID, urlParam(r, "date"), payload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, wd)
}

// @Summary Delete workday
// @Tags Workday
// @Param date query string true "Date, YYYY-MM-DD or DD/MM/YYYY"
// @Param user_id query string false "User ID (administrative roles)"
// @Success 204
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/workdays [delete]
func (h *BaseController) DeleteWorkday(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteWorkday(r.Context(), userID, r.URL.Query().Get("date")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent) // 204
}

// @Summary Import workdays
// @Description Bulk import of a legacy spreadsheet CSV export. Existing days are skipped.
// @Tags Workday
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param user_id query string false "User ID (administrative roles)"
// @Success 200 {object} models.ImportResult
// @Failure 400 {object} errorResponse
// @Router /api/workdays/import-csv [post]
func (h *BaseController) ImportCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.owner(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		h.log.Info("no file in import request: ", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file"})
		return
	}
	defer file.Close()

	res, err := h.service.ImportCSV(r.Context(), userID, file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file too large"})
			return
		}

		h.log.Info("cannot import file: ", zap.String("file", header.Filename), zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, res)
}
