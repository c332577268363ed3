package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/wurt83ow/worktravel/internal/models"
	"go.uber.org/zap"
)

// reportQuery reads the caller and month, year and user_id of a report request.
func (h *BaseController) reportQuery(w http.ResponseWriter, r *http.Request) (models.User, int, int, string, bool) {
	actor, ok := h.actor(w, r)
	if !ok {
		return models.User{}, 0, 0, "", false
	}

	month, year, ok := monthYear(r)
	if !ok || month == 0 || year == 0 {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "month and year are required"})
		return models.User{}, 0, 0, "", false
	}

	return actor, month, year, r.URL.Query().Get("user_id"), true
}

// @Summary Monthly statistics
// @Tags Report
// @Produce json
// @Param month query int true "Month"
// @Param year query int true "Year"
// @Param user_id query string false "User ID"
// @Success 200 {object} models.MonthlyStats
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /api/stats/monthly [get]
func (h *BaseController) GetMonthlyStats(w http.ResponseWriter, r *http.Request) {
	actor, month, year, userID, ok := h.reportQuery(w, r)
	if !ok {
		return
	}

	st, err := h.service.MonthlyStats(actor, month, year, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, st)
}

// @Summary Monthly PDF report
// @Tags Report
// @Produce application/pdf
// @Param month query int true "Month"
// @Param year query int true "Year"
// @Param user_id query string false "User ID"
// @Success 200 {file} file
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /api/export/pdf [get]
func (h *BaseController) ExportPDF(w http.ResponseWriter, r *http.Request) {
	actor, month, year, userID, ok := h.reportQuery(w, r)
	if !ok {
		return
	}

	pdf, err := h.service.ExportPDF(actor, month, year, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%02d_%d.pdf"`, month, year))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(pdf); err != nil {
		h.log.Info("error writing pdf: ", zap.Error(err))
	}
}

// @Summary Monthly CSV export
// @Description Exported files can be imported again
// @Tags Report
// @Produce text/csv
// @Param month query int true "Month"
// @Param year query int true "Year"
// @Param user_id query string false "User ID"
// @Success 200 {file} file
// @Failure 400 {object} errorResponse
// @Failure 403 {object} errorResponse
// @Router /api/export/csv [get]
func (h *BaseController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	actor, month, year, userID, ok := h.reportQuery(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.service.ExportCSV(&buf, actor, month, year, userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="workdays_%02d_%d.csv"`, month, year))
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.log.Info("error writing csv: ", zap.Error(err))
	}
}
