package authz

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wurt83ow/worktravel/internal/models"
	"go.uber.org/zap"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetUser(id string) (models.User, error) {
	args := m.Called(id)
	return args.Get(0).(models.User), args.Error(1)
}

func protected(j *JWTAuthz, admin bool) http.Handler {
	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, _ := UserFromContext(r.Context())
		_, _ = w.Write([]byte(u.ID))
	})
	if admin {
		h = RequireAdmin(h)
	}

	return j.JWTAuthzMiddleware(zap.NewNop())(h)
}

func TestJWTAuthz_RoundTrip(t *testing.T) {
	j := NewJWTAuthz(nil, "secret", "", zap.NewNop())
	user := models.User{ID: "u1", Username: "mario", Role: models.RoleHR}

	token, err := j.CreateJWTTokenForUser(user)
	require.NoError(t, err)

	claims, err := j.DecodeJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleHR, claims.Role)
	assert.Equal(t, defaultTTL.Seconds(), float64(claims.ExpiresAt-claims.IssuedAt))

	other := NewJWTAuthz(nil, "other", "1h", zap.NewNop())
	_, err = other.DecodeJWT(token)
	assert.Error(t, err)

	_, err = j.DecodeJWT("")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestJWTAuthz_Passwords(t *testing.T) {
	j := NewJWTAuthz(nil, "secret", "", zap.NewNop())

	hash, err := j.GetHash("s3cret")
	require.NoError(t, err)

	assert.NoError(t, j.CheckPassword(hash, "s3cret"))
	assert.ErrorIs(t, j.CheckPassword(hash, "wrong"), ErrBadCredentials)
	assert.ErrorIs(t, j.CheckPassword(nil, "s3cret"), ErrBadCredentials)
}

func TestJWTAuthzMiddleware(t *testing.T) {
	storage := new(MockStorage)
	j := NewJWTAuthz(storage, "secret", "", zap.NewNop())

	employee := models.User{ID: "u1", Role: models.RoleUser}
	blocked := models.User{ID: "u2", Role: models.RoleUser, Blocked: true}
	admin := models.User{ID: "u3", Role: models.RoleAdmin}

	storage.On("GetUser", "u1").Return(employee, nil)
	storage.On("GetUser", "u2").Return(blocked, nil)
	storage.On("GetUser", "u3").Return(admin, nil)
	storage.On("GetUser", "gone").Return(models.User{}, errors.New("not found"))

	token := func(u models.User) string {
		tok, err := j.CreateJWTTokenForUser(u)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name   string
		admin  bool
		setup  func(r *http.Request)
		status int
		body   string
	}{
		{"no token", false, func(r *http.Request) {}, http.StatusUnauthorized, ""},
		{"bearer header", false, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token(employee))
		}, http.StatusOK, "u1"},
		{"cookie", false, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: CookieName, Value: token(employee)})
		}, http.StatusOK, "u1"},
		{"blocked", false, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token(blocked))
		}, http.StatusForbidden, ""},
		{"deleted user", false, func(r *http.Request) {
			r.Header.Set("Authorization", token(models.User{ID: "gone"}))
		}, http.StatusUnauthorized, ""},
		{"employee on admin route", true, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token(employee))
		}, http.StatusForbidden, ""},
		{"admin on admin route", true, func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token(admin))
		}, http.StatusOK, "u3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)

			rr := httptest.NewRecorder()
			protected(j, tt.admin).ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rr.Body.String())
			}
		})
	}
}

func TestAuthCookie(t *testing.T) {
	j := NewJWTAuthz(nil, "secret", "2h", zap.NewNop())

	c := j.AuthCookie(CookieName, "tok")
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, 7200, c.MaxAge)
}
