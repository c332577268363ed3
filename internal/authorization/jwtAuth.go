package authz

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/wurt83ow/worktravel/internal/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "jwt-token"
	defaultTTL = 30 * 24 * time.Hour
)

var keyUser models.Key = "user"

var (
	ErrEmptyToken     = errors.New("empty token")
	ErrSigningMethod  = errors.New("signing method mismatch")
	ErrInvalidToken   = errors.New("invalid token")
	ErrBadCredentials = errors.New("incorrect username or password")
)

type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

type Log interface {
	Info(string, ...zapcore.Field)
}

type Storage interface {
	GetUser(string) (models.User, error)
}

type JWTAuthz struct {
	jwtSigningKey    []byte
	log              Log
	jwtSigningMethod *jwt.SigningMethodHMAC
	defaultCookie    http.Cookie
	storage          Storage
	ttl              time.Duration
}

// NewJWTAuthz parses ttl as a time.Duration; an empty or invalid value
// falls back to 30 days.
func NewJWTAuthz(storage Storage, signingKey string, ttl string, log Log) *JWTAuthz {
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		if ttl != "" {
			log.Info("invalid jwt ttl, using default: ", zap.String("ttl", ttl))
		}
		d = defaultTTL
	}

	return &JWTAuthz{
		jwtSigningKey:    []byte(signingKey),
		log:              log,
		jwtSigningMethod: jwt.SigningMethodHS256,
		storage:          storage,
		ttl:              d,
		defaultCookie: http.Cookie{
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
	}
}

// JWTAuthzMiddleware accepts a token from the Authorization header
// ("Bearer <token>" or the bare token) or from the jwt-token cookie.
// The authenticated user is put into the request context.
func (j *JWTAuthz) JWTAuthzMiddleware(log Log) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				if c, err := r.Cookie(CookieName); err == nil {
					token = c.Value
				}
			}

			claims, err := j.DecodeJWT(token)
			if err != nil {
				log.Info("Error occurred decoding JWT", zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			user, err := j.storage.GetUser(claims.UserID)
			if err != nil {
				log.Info("User not found in storage", zap.String("user_id", claims.UserID), zap.Error(err))
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if user.Blocked {
				log.Info("blocked user rejected", zap.String("user_id", user.ID))
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		}

		return http.HandlerFunc(fn)
	}
}

// RequireAdmin lets through only super_admin, admin and hr users.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !models.IsAdminRole(user.Role) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, keyUser, user)
}

func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(keyUser).(models.User)
	return user, ok
}

func (j *JWTAuthz) CreateJWTTokenForUser(user models.User) (string, error) {
	now := time.Now()

	claims := CustomClaims{
		UserID: user.ID,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(j.ttl).Unix(),
			Subject:   user.Username,
		},
	}

	return jwt.NewWithClaims(j.jwtSigningMethod, claims).SignedString(j.jwtSigningKey)
}

func (j *JWTAuthz) DecodeJWT(token string) (*CustomClaims, error) {
	if token == "" {
		return nil, ErrEmptyToken
	}

	decodedToken, err := jwt.ParseWithClaims(token, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if j.jwtSigningMethod != token.Method {
			// Check our method hasn't changed since issuance
			return nil, ErrSigningMethod
		}

		return j.jwtSigningKey, nil
	})
	if err != nil {
		return nil, err
	}

	// There's two parts. We might decode it successfully but it might
	// be the case we aren't Valid so you must check both
	if claims, ok := decodedToken.Claims.(*CustomClaims); ok && decodedToken.Valid && claims.UserID != "" {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// GetHash returns the bcrypt hash of password.
func (j *JWTAuthz) GetHash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword compares password with a stored bcrypt hash.
func (j *JWTAuthz) CheckPassword(hash []byte, password string) error {
	if len(hash) == 0 {
		return ErrBadCredentials
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return ErrBadCredentials
	}

	return nil
}

func (j *JWTAuthz) AuthCookie(name string, token string) *http.Cookie {
	d := j.defaultCookie
	d.Name = name
	d.Value = token
	d.Path = "/"
	d.MaxAge = int(j.ttl.Seconds())

	return &d
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return header
}
