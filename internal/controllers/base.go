package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi"
	authz "github.com/wurt83ow/worktravel/internal/authorization"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/service"
	"github.com/wurt83ow/worktravel/internal/storage"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxUploadSize = 10 << 20 // 10 MB

// Service is implemented by service.Service.
type Service interface {
	Ping() bool

	Login(models.Credentials) (models.LoginResponse, error)
	Profile(models.User) (models.User, error)
	UpdateProfile(context.Context, models.User, models.UserPatch) (models.User, error)
	ListUsers() []models.User
	CreateUser(context.Context, models.User, models.UserRequest) (models.User, error)
	UpdateUser(context.Context, models.User, string, models.UserPatch) (models.User, error)
	DeleteUser(context.Context, models.User, string) error
	ListRoles() []models.Role
	CreateRole(context.Context, models.User, models.RoleRequest) (models.Role, error)

	ListCities() []models.City
	CreateCity(context.Context, models.City) (models.City, error)
	ReplaceCity(context.Context, string, models.City) (models.City, error)
	DeleteCity(context.Context, string) error

	GetSettings() models.Settings
	ReplaceSettings(context.Context, models.Settings) (models.Settings, error)

	UpsertWorkday(context.Context, string, models.WorkdayPayload) (models.Workday, error)
	CreateWorkday(context.Context, string, models.WorkdayPayload) (models.Workday, error)
	UpdateWorkday(context.Context, string, string, models.WorkdayPayload) (models.Workday, error)
	GetWorkday(string, string) (models.Workday, error)
	DeleteWorkday(context.Context, string, string) error
	ListWorkdays(models.User, int, int, string) ([]models.Workday, error)
	ImportCSV(context.Context, string, io.Reader) (models.ImportResult, error)

	MonthlyStats(models.User, int, int, string) (models.MonthlyStats, error)
	ExportPDF(models.User, int, int, string) ([]byte, error)
	ExportCSV(io.Writer, models.User, int, int, string) error
}

type Log interface {
	Info(string, ...zapcore.Field)
}

type Authz interface {
	JWTAuthzMiddleware(authz.Log) func(http.Handler) http.Handler
	AuthCookie(string, string) *http.Cookie
}

type BaseController struct {
	service Service
	log     Log
	authz   Authz
}

func NewBaseController(service Service, log Log, authz Authz) *BaseController {
	instance := &BaseController{
		service: service,
		log:     log,
		authz:   authz,
	}

	return instance
}

func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()

	r.Get("/ping", h.GetPing)
	r.Post("/api/auth/login", h.Login)

	// group where the middleware authorization is needed
	r.Group(func(r chi.Router) {
		r.Use(h.authz.JWTAuthzMiddleware(h.log))

		r.Get("/api/profile", h.GetProfile)
		r.Patch("/api/profile", h.UpdateProfile)

		r.Get("/api/cities", h.GetCities)
		r.Post("/api/cities", h.AddCity)
		r.Put("/api/cities/{name}", h.ReplaceCity)

		r.Get("/api/settings", h.GetSettings)

		r.Get("/api/roles", h.GetRoles)

		r.Get("/api/workdays", h.GetWorkdays)
		r.Post("/api/workdays", h.UpsertWorkday)
		r.Delete("/api/workdays", h.DeleteWorkday)
		r.Post("/api/workdays/import-csv", h.ImportCSV)
		r.Get("/api/workdays/{date}", h.GetWorkday)
		r.Put("/api/workdays/{date}", h.UpdateWorkday)

		r.Get("/api/stats/monthly", h.GetMonthlyStats)
		r.Get("/api/export/pdf", h.ExportPDF)
		r.Get("/api/export/csv", h.ExportCSV)

		// administrative roles only
		r.Group(func(r chi.Router) {
			r.Use(authz.RequireAdmin)

			r.Get("/api/users", h.GetUsers)
			r.Post("/api/users", h.AddUser)
			r.Patch("/api/users/{id}", h.UpdateUser)
			r.Delete("/api/users/{id}", h.DeleteUser)
			r.Post("/api/roles", h.AddRole)

			r.Delete("/api/cities/{name}", h.DeleteCity)
			r.Put("/api/settings", h.ReplaceSettings)
		})
	})

	return r
}

// @Summary Ping
// @Description Check the storage connection
// @Tags Service
// @Success 200 {string} string "OK"
// @Failure 500 {string} string "Internal Server Error"
// @Router /ping [get]
func (h *BaseController) GetPing(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ping() {
		h.log.Info("got status internal server error")
		w.WriteHeader(http.StatusInternalServerError) // 500
		return
	}

	w.WriteHeader(http.StatusOK) // 200
	h.log.Info("sending HTTP 200 response")
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, workday.ErrInvalidDate),
		errors.Is(err, workday.ErrInvalidTime),
		errors.Is(err, workday.ErrConflictingClassification),
		errors.Is(err, workday.ErrInvalidSettings),
		errors.Is(err, workday.ErrScheduleOverflow),
		errors.Is(err, workday.ErrInvalidCity),
		errors.Is(err, service.ErrInvalidUser),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, authz.ErrBadCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, workday.ErrCityNotFound),
		errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, workday.ErrDuplicateWorkday),
		errors.Is(err, storage.ErrConflict),
		errors.Is(err, service.ErrCityInUse):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

func (h *BaseController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	h.log.Info("request failed",
		zap.String("method", r.Method),
		zap.String("uri", r.RequestURI),
		zap.Int("status", status),
		zap.Error(err))

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
	}

	h.writeJSON(w, status, errorResponse{Error: msg})
}

func (h *BaseController) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Info("error encoding response: ", zap.Error(err))
	}
}

func (h *BaseController) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.log.Info("cannot decode request JSON body: ", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}

	return true
}

// actor returns the authenticated user put into the context by the middleware.
func (h *BaseController) actor(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := authz.UserFromContext(r.Context())
	if !ok {
		h.log.Info("no user in request context")
		w.WriteHeader(http.StatusUnauthorized) // 401
	}

	return user, ok
}

// monthYear reads the optional month and year query parameters.
func monthYear(r *http.Request) (int, int, bool) {
	q := r.URL.Query()

	month, ok := queryInt(q, "month")
	if !ok || month < 0 || month > 12 {
		return 0, 0, false
	}

	year, ok := queryInt(q, "year")
	if !ok || year < 0 {
		return 0, 0, false
	}

	return month, year, true
}

func queryInt(q url.Values, key string) (int, bool) {
	v := q.Get(key)
	if v == "" {
		return 0, true
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return n, true
}

// urlParam returns a decoded path parameter: dates like 15%2F07%2F2025 arrive escaped.
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}

	return raw
}
