package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	authz "github.com/wurt83ow/worktravel/internal/authorization"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/service"
	"github.com/wurt83ow/worktravel/internal/storage"
	"github.com/wurt83ow/worktravel/internal/workday"
	"go.uber.org/zap/zapcore"
)

// MockService is a mock implementation of the Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Ping() bool {
	return m.Called().Bool(0)
}

func (m *MockService) Login(c models.Credentials) (models.LoginResponse, error) {
	args := m.Called(c)
	return args.Get(0).(models.LoginResponse), args.Error(1)
}

func (m *MockService) Profile(u models.User) (models.User, error) {
	args := m.Called(u)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockService) UpdateProfile(ctx context.Context, u models.User, p models.UserPatch) (models.User, error) {
	args := m.Called(u, p)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockService) ListUsers() []models.User {
	return m.Called().Get(0).([]models.User)
}

func (m *MockService) CreateUser(ctx context.Context, u models.User, req models.UserRequest) (models.User, error) {
	args := m.Called(u, req)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockService) UpdateUser(ctx context.Context, u models.User, id string, p models.UserPatch) (models.User, error) {
	args := m.Called(u, id, p)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockService) DeleteUser(ctx context.Context, u models.User, id string) error {
	return m.Called(u, id).Error(0)
}

func (m *MockService) ListRoles() []models.Role {
	return m.Called().Get(0).([]models.Role)
}

func (m *MockService) CreateRole(ctx context.Context, u models.User, req models.RoleRequest) (models.Role, error) {
	args := m.Called(u, req)
	return args.Get(0).(models.Role), args.Error(1)
}

func (m *MockService) ListCities() []models.City {
	return m.Called().Get(0).([]models.City)
}

func (m *MockService) CreateCity(ctx context.Context, c models.City) (models.City, error) {
	args := m.Called(c)
	return args.Get(0).(models.City), args.Error(1)
}

func (m *MockService) ReplaceCity(ctx context.Context, name string, c models.City) (models.City, error) {
	args := m.Called(name, c)
	return args.Get(0).(models.City), args.Error(1)
}

func (m *MockService) DeleteCity(ctx context.Context, name string) error {
	return m.Called(name).Error(0)
}

func (m *MockService) GetSettings() models.Settings {
	return m.Called().Get(0).(models.Settings)
}

func (m *MockService) ReplaceSettings(ctx context.Context, s models.Settings) (models.Settings, error) {
	args := m.Called(s)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *MockService) UpsertWorkday(ctx context.Context, userID string, p models.WorkdayPayload) (models.Workday, error) {
	args := m.Called(userID, p)
	return args.Get(0).(models.Workday), args.Error(1)
}

func (m *MockService) CreateWorkday(ctx context.Context, userID string, p models.WorkdayPayload) (models.Workday, error) {
	args := m.Called(userID, p)
	return args.Get(0).(models.Workday), args.Error(1)
}

func (m *MockService) UpdateWorkday(ctx context.Context, userID, date string, p models.WorkdayPayload) (models.Workday, error) {
	args := m.Called(userID, date, p)
	return args.Get(0).(models.Workday), args.Error(1)
}

func (m *MockService) GetWorkday(userID, date string) (models.Workday, error) {
	args := m.Called(userID, date)
	return args.Get(0).(models.Workday), args.Error(1)
}

func (m *MockService) DeleteWorkday(ctx context.Context, userID, date string) error {
	return m.Called(userID, date).Error(0)
}

func (m *MockService) ListWorkdays(u models.User, month, year int, userID string) ([]models.Workday, error) {
	args := m.Called(u, month, year, userID)
	return args.Get(0).([]models.Workday), args.Error(1)
}

func (m *MockService) ImportCSV(ctx context.Context, userID string, r io.Reader) (models.ImportResult, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(userID, string(data))
	return args.Get(0).(models.ImportResult), args.Error(1)
}

func (m *MockService) MonthlyStats(u models.User, month, year int, userID string) (models.MonthlyStats, error) {
	args := m.Called(u, month, year, userID)
	return args.Get(0).(models.MonthlyStats), args.Error(1)
}

func (m *MockService) ExportPDF(u models.User, month, year int, userID string) ([]byte, error) {
	args := m.Called(u, month, year, userID)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockService) ExportCSV(w io.Writer, u models.User, month, year int, userID string) error {
	args := m.Called(u, month, year, userID)
	_, _ = io.WriteString(w, args.String(0))
	return args.Error(1)
}

// MockAuthz authenticates every request as user, or rejects it when user is nil.
type MockAuthz struct {
	user *models.User
}

func (m *MockAuthz) JWTAuthzMiddleware(log authz.Log) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(authz.WithUser(r.Context(), *m.user)))
		})
	}
}

func (m *MockAuthz) AuthCookie(name string, value string) *http.Cookie {
	return &http.Cookie{Name: name, Value: value}
}

// MockLog is a mock implementation of the Log interface
type MockLog struct{}

func (m *MockLog) Info(msg string, fields ...zapcore.Field) {}

var (
	employee = models.User{ID: "u1", Username: "mario", Role: models.RoleUser}
	manager  = models.User{ID: "a1", Username: "anna", Role: models.RoleAdmin}
)

func newRouter(svc *MockService, user *models.User) http.Handler {
	return NewBaseController(svc, &MockLog{}, &MockAuthz{user: user}).Route()
}

func serve(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	return rr
}

func strPtr(s string) *string { return &s }

func TestBaseController_Ping(t *testing.T) {
	svc := new(MockService)
	svc.On("Ping").Return(true).Once()
	svc.On("Ping").Return(false).Once()

	router := newRouter(svc, nil)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, serve(router, http.MethodGet, "/ping", nil).Code)
}

func TestBaseController_Login(t *testing.T) {
	svc := new(MockService)
	svc.On("Login", models.Credentials{Username: "mario", Password: "pw"}).
		Return(models.LoginResponse{Token: "jwtToken", User: employee, Role: employee.Role}, nil)
	svc.On("Login", models.Credentials{Username: "mario", Password: "bad"}).
		Return(models.LoginResponse{}, service.ErrUnauthorized)

	router := newRouter(svc, nil)

	t.Run("Successful Login", func(t *testing.T) {
		rr := serve(router, http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"username":"mario","password":"pw"}`))
		require.Equal(t, http.StatusOK, rr.Code)

		var resp models.LoginResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "jwtToken", resp.Token)
		assert.Equal(t, "Bearer jwtToken", rr.Header().Get("Authorization"))
		assert.Contains(t, rr.Header().Get("Set-Cookie"), authz.CookieName+"=jwtToken")
	})

	t.Run("Unauthorized", func(t *testing.T) {
		rr := serve(router, http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"username":"mario","password":"bad"}`))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Bad Request", func(t *testing.T) {
		rr := serve(router, http.MethodPost, "/api/auth/login", bytes.NewBufferString(`invalid json`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestBaseController_AuthRequired(t *testing.T) {
	router := newRouter(new(MockService), nil)

	for _, target := range []string{"/api/profile", "/api/workdays", "/api/cities", "/api/stats/monthly?month=7&year=2025"} {
		assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, target, nil).Code, target)
	}
}

func TestBaseController_AdminOnly(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc, &employee)

	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodGet, "/api/users", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodDelete, "/api/cities/Modena", nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(router, http.MethodPut, "/api/settings", bytes.NewBufferString(`{}`)).Code)
	svc.AssertNotCalled(t, "ListUsers")

	svc.On("ListUsers").Return([]models.User{employee, manager})
	admin := newRouter(svc, &manager)

	rr := serve(admin, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var users []models.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&users))
	assert.Len(t, users, 2)
}

func TestBaseController_UpsertWorkday(t *testing.T) {
	svc := new(MockService)
	payload := models.WorkdayPayload{Date: "2025-07-15", City: strPtr("Modena")}
	city := "Modena"

	svc.On("UpsertWorkday", "u1", payload).Return(models.Workday{ID: "w1", UserID: "u1", Date: "2025-07-15", City: &city}, nil)
	svc.On("CreateWorkday", "u1", payload).Return(models.Workday{}, &workday.DuplicateWorkdayError{UserID: "u1", Date: "2025-07-15"})

	router := newRouter(svc, &employee)
	body := `{"date":"2025-07-15","city":"Modena"}`

	rr := serve(router, http.MethodPost, "/api/workdays", bytes.NewBufferString(body))
	require.Equal(t, http.StatusOK, rr.Code)

	var wd models.Workday
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&wd))
	assert.Equal(t, "w1", wd.ID)

	rr = serve(router, http.MethodPost, "/api/workdays?strict=true", bytes.NewBufferString(body))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = serve(router, http.MethodPost, "/api/workdays?user_id=u2", bytes.NewBufferString(body))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestBaseController_WorkdayErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid date", &workday.InvalidDateError{Raw: "x"}, http.StatusBadRequest},
		{"conflicting", workday.ErrConflictingClassification, http.StatusBadRequest},
		{"overflow", workday.ErrScheduleOverflow, http.StatusBadRequest},
		{"city not found", &workday.CityNotFoundError{Name: "Atlantide"}, http.StatusNotFound},
		{"not found", storage.ErrNotFound, http.StatusNotFound},
		{"forbidden", service.ErrForbidden, http.StatusForbidden},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("UpdateWorkday", "u1", "15/07/2025", mock.Anything).Return(models.Workday{}, tt.err)

			rr := serve(newRouter(svc, &employee), http.MethodPut, "/api/workdays/15%2F07%2F2025", bytes.NewBufferString(`{"status":"Ferie"}`))
			assert.Equal(t, tt.want, rr.Code)

			var resp errorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestBaseController_GetAndDeleteWorkday(t *testing.T) {
	svc := new(MockService)
	svc.On("GetWorkday", "u2", "2025-07-15").Return(models.Workday{ID: "w2", UserID: "u2"}, nil)
	svc.On("DeleteWorkday", "a1", "2025-07-15").Return(storage.ErrNotFound)

	router := newRouter(svc, &manager)

	rr := serve(router, http.MethodGet, "/api/workdays/2025-07-15?user_id=u2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(router, http.MethodDelete, "/api/workdays?date=2025-07-15", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBaseController_GetWorkdays(t *testing.T) {
	svc := new(MockService)
	svc.On("ListWorkdays", employee, 7, 2025, "").Return([]models.Workday{{ID: "w1"}}, nil)
	svc.On("ListWorkdays", employee, 7, 2025, "u2").Return([]models.Workday(nil), service.ErrForbidden)

	router := newRouter(svc, &employee)

	rr := serve(router, http.MethodGet, "/api/workdays?month=7&year=2025", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve(router, http.MethodGet, "/api/workdays?month=7&year=2025&user_id=u2", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = serve(router, http.MethodGet, "/api/workdays?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBaseController_ImportCSV(t *testing.T) {
	content := "Giorno;Città;Stato Giornata\n01/07/2025;Modena;\n"

	svc := new(MockService)
	svc.On("ImportCSV", "u1", content).Return(models.ImportResult{
		Message:  "Import completato",
		RowsRead: 1,
		Imported: 1,
		Errors:   []string{},
	}, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "giornate.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/workdays/import-csv", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	newRouter(svc, &employee).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Import completato","rows_read":1,"rows_saved":1,"skipped":0,"errors":[]}`, rr.Body.String())

	rr = serve(newRouter(svc, &employee), http.MethodPost, "/api/workdays/import-csv", bytes.NewBufferString("x"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBaseController_Reports(t *testing.T) {
	svc := new(MockService)
	svc.On("MonthlyStats", manager, 7, 2025, "u1").Return(models.MonthlyStats{Month: "07/2025", WorkDays: 3}, nil)
	svc.On("ExportPDF", manager, 7, 2025, "").Return([]byte("%PDF-1.3"), nil)
	svc.On("ExportCSV", manager, 7, 2025, "").Return("\uFEFFGiorno;Città\n", nil)

	router := newRouter(svc, &manager)

	rr := serve(router, http.MethodGet, "/api/stats/monthly?month=7&year=2025&user_id=u1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"work_days":3`)

	rr = serve(router, http.MethodGet, "/api/stats/monthly", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = serve(router, http.MethodGet, "/api/export/pdf?month=7&year=2025", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "report_07_2025.pdf")

	rr = serve(router, http.MethodGet, "/api/export/csv?month=7&year=2025", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Giorno;Città")
}

func TestBaseController_Cities(t *testing.T) {
	svc := new(MockService)
	svc.On("DeleteCity", "Reggio Emilia").Return(service.ErrCityInUse)
	svc.On("CreateCity", mock.Anything).Return(models.City{}, storage.ErrConflict)

	router := newRouter(svc, &manager)

	rr := serve(router, http.MethodDelete, "/api/cities/Reggio%20Emilia", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = serve(router, http.MethodPost, "/api/cities", bytes.NewBufferString(`{"name":"Modena"}`))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestBaseController_Roles(t *testing.T) {
	svc := new(MockService)
	svc.On("ListRoles").Return(models.BuiltinRoles())
	svc.On("CreateRole", manager, models.RoleRequest{Name: "auditor", Permissions: []string{"view_users"}}).
		Return(models.Role{}, service.ErrForbidden)

	root := models.User{ID: "s1", Username: "root", Role: models.RoleSuperAdmin}
	svc.On("CreateRole", root, models.RoleRequest{Name: "auditor", Permissions: []string{"view_users"}}).
		Return(models.Role{ID: "r1", Name: "auditor", Permissions: []string{"view_users"}, Custom: true}, nil)
	svc.On("CreateRole", root, models.RoleRequest{Name: ""}).
		Return(models.Role{}, service.ErrInvalidRole)

	body := `{"name":"auditor","permissions":["view_users"]}`

	t.Run("Anyone lists", func(t *testing.T) {
		rr := serve(newRouter(svc, &employee), http.MethodGet, "/api/roles", nil)
		require.Equal(t, http.StatusOK, rr.Code)

		var roles []models.Role
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&roles))
		require.Len(t, roles, 4)
		assert.Equal(t, []string{"all"}, roles[0].Permissions)
	})

	t.Run("Plain user cannot create", func(t *testing.T) {
		rr := serve(newRouter(svc, &employee), http.MethodPost, "/api/roles", bytes.NewBufferString(body))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Admin is not enough", func(t *testing.T) {
		rr := serve(newRouter(svc, &manager), http.MethodPost, "/api/roles", bytes.NewBufferString(body))
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Super admin creates", func(t *testing.T) {
		rr := serve(newRouter(svc, &root), http.MethodPost, "/api/roles", bytes.NewBufferString(body))
		require.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"id":"r1","name":"auditor","permissions":["view_users"],"custom":true,"created_at":"0001-01-01T00:00:00Z"}`, rr.Body.String())

		rr = serve(newRouter(svc, &root), http.MethodPost, "/api/roles", bytes.NewBufferString(`{"name":""}`))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
