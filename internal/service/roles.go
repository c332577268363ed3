package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wurt83ow/worktravel/internal/models"
	"github.com/wurt83ow/worktravel/internal/storage"
	"go.uber.org/zap"
)

// ListRoles returns the built-in roles followed by the custom ones.
func (s *Service) ListRoles() []models.Role {
	return append(models.BuiltinRoles(), s.store.ListRoles()...)
}

// CreateRole adds a custom role. Only a super admin may do it. Custom roles
// never grant administrative access.
func (s *Service) CreateRole(ctx context.Context, actor models.User, req models.RoleRequest) (models.Role, error) {
	if actor.Role != models.RoleSuperAdmin {
		return models.Role{}, ErrForbidden
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Role{}, fmt.Errorf("%w: name is required", ErrInvalidRole)
	}

	for _, r := range models.BuiltinRoles() {
		if strings.EqualFold(r.Name, name) {
			return models.Role{}, fmt.Errorf("%w: role %s is built in", storage.ErrConflict, r.Name)
		}
	}

	perms := make([]string, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}

	role, err := s.store.InsertRole(ctx, models.Role{
		ID:          uuid.New().String(),
		Name:        name,
		Permissions: perms,
		Custom:      true,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return models.Role{}, err
	}

	s.log.Info("role created", zap.String("name", role.Name))

	return role, nil
}

func (s *Service) validRole(role string) bool {
	return models.IsValidRole(role, s.store.ListRoles())
}
