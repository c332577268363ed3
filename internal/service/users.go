package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"go.uber.org/zap"
)

// Login checks the credentials against the username or the email.
func (s *Service) Login(creds models.Credentials) (models.LoginResponse, error) {
	user, err := s.store.GetUserByLogin(creds.Username)
	if err != nil {
		s.log.Info("login with unknown user", zap.String("login", creds.Username))
		return models.LoginResponse{}, ErrUnauthorized
	}

	if err := s.authz.CheckPassword(user.PasswordHash, creds.Password); err != nil {
		s.log.Info("login with wrong password", zap.String("user_id", user.ID))
		return models.LoginResponse{}, ErrUnauthorized
	}

	if user.Blocked {
		return models.LoginResponse{}, ErrForbidden
	}

	token, err := s.authz.CreateJWTTokenForUser(user)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("create token: %w", err)
	}

	return models.LoginResponse{Token: token, User: user, Role: user.Role}, nil
}

func (s *Service) ListUsers() []models.User {
	return s.store.ListUsers()
}

// CreateUser adds an account. Only a super admin may create another one.
func (s *Service) CreateUser(ctx context.Context, actor models.User, req models.UserRequest) (models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	switch {
	case req.Username == "" || req.Password == "":
		return models.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidUser)
	case !s.validRole(req.Role):
		return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, req.Role)
	case req.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin:
		return models.User{}, ErrForbidden
	}

	hash, err := s.authz.GetHash(req.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.InsertUser(ctx, models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return models.User{}, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID), zap.String("role", user.Role))

	return user, nil
}

// UpdateUser applies an administrator's patch to the user id.
func (s *Service) UpdateUser(ctx context.Context, actor models.User, id string, p models.UserPatch) (models.User, error) {
	user, err := s.store.GetUser(id)
	if err != nil {
		return models.User{}, err
	}

	if user.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return models.User{}, ErrForbidden
	}

	if p.Role != nil {
		switch {
		case !s.validRole(*p.Role):
			return models.User{}, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, *p.Role)
		case *p.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin:
			return models.User{}, ErrForbidden
		}
		user.Role = *p.Role
	}

	if p.Blocked != nil {
		if id == actor.ID && *p.Blocked {
			return models.User{}, fmt.Errorf("%w: cannot block yourself", ErrInvalidUser)
		}
		user.Blocked = *p.Blocked
	}

	return s.patchAccount(ctx, user, p)
}

func (s *Service) DeleteUser(ctx context.Context, actor models.User, id string) error {
	if id == actor.ID {
		return fmt.Errorf("%w: cannot delete yourself", ErrInvalidUser)
	}

	user, err := s.store.GetUser(id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleSuperAdmin && actor.Role != models.RoleSuperAdmin {
		return ErrForbidden
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	s.log.Info("user deleted", zap.String("user_id", id))

	return nil
}

func (s *Service) Profile(actor models.User) (models.User, error) {
	return s.store.GetUser(actor.ID)
}

// UpdateProfile lets any user change their own email, name and password.
func (s *Service) UpdateProfile(ctx context.Context, actor models.User, p models.UserPatch) (models.User, error) {
	user, err := s.store.GetUser(actor.ID)
	if err != nil {
		return models.User{}, err
	}

	p.Role, p.Blocked = nil, nil

	return s.patchAccount(ctx, user, p)
}

func (s *Service) patchAccount(ctx context.Context, user models.User, p models.UserPatch) (models.User, error) {
	if p.Email != nil {
		user.Email = strings.TrimSpace(*p.Email)
	}
	if p.Name != nil {
		user.Name = strings.TrimSpace(*p.Name)
	}
	if p.Password != nil {
		if *p.Password == "" {
			return models.User{}, fmt.Errorf("%w: empty password", ErrInvalidUser)
		}

		hash, err := s.authz.GetHash(*p.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	return s.store.UpdateUser(ctx, user)
}

// EnsureAdmin creates the bootstrap super admin when no account uses username.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	if _, err := s.store.GetUserByLogin(username); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	root := models.User{Role: models.RoleSuperAdmin}

	_, err := s.CreateUser(ctx, root, models.UserRequest{
		Username: username,
		Name:     "Administrator",
		Password: password,
		Role:     models.RoleSuperAdmin,
	})

	return err
}
