package admin

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/globalpath/platform/internal/settings"
	"github.com/globalpath/platform/pkg/cache"
	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
)

// Service handles back-office business logic: staff accounts, the
// dashboard summary and the audit trail.
type Service struct {
	repo     RepositoryInterface
	resolver *settings.Resolver
	cache    *cache.Manager
}

// NewService creates a new admin service
func NewService(repo RepositoryInterface, resolver *settings.Resolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// SetCache attaches an optional cache manager for the dashboard summary.
func (s *Service) SetCache(cm *cache.Manager) {
	s.cache = cm
}

// GetDashboardStats returns the landing page counters, cached briefly.
func (s *Service) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	if s.cache != nil {
		var cached DashboardStats
		err := s.cache.GetOrSet(ctx, cache.Keys.DashboardStats(), cache.TTL.Short(), &cached, func() (interface{}, error) {
			return s.repo.GetDashboardStats(ctx)
		})
		if err == nil {
			return &cached, nil
		}
	}
	return s.repo.GetDashboardStats(ctx)
}

// --- Staff accounts ---

// CreateStaffRequest is the payload for provisioning a back-office account.
// Registration is admin-driven; there is no public signup.
type CreateStaffRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required,max=60"`
	LastName  string `json:"last_name" binding:"required,max=60"`
	Role      string `json:"role" binding:"required,oneof=admin editor counselor"`
}

// CreateStaffUser provisions an editor, counselor or admin account.
func (s *Service) CreateStaffUser(ctx context.Context, adminID uuid.UUID, req *CreateStaffRequest) (*models.User, error) {
	security, err := s.resolver.SecuritySettings(ctx)
	if err != nil {
		security = settings.Defaults().Security
	}
	if len(req.Password) < security.PasswordMinLength {
		return nil, common.NewValidationError(
			fmt.Sprintf("password must be at least %d characters", security.PasswordMinLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.NewInternalError("failed to hash password", err)
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.UserRole(req.Role),
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.repo.InsertAuditLog(ctx, adminID, "create_user", "user", user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  string(user.Role),
	})
	return user, nil
}

// ListUsers returns staff accounts newest first.
func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error) {
	return s.repo.ListUsers(ctx, limit, offset)
}

// GetUser returns a staff account by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// DeactivateUser disables a staff account. Admins cannot disable themselves.
func (s *Service) DeactivateUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if adminID == userID {
		return common.NewValidationError("you cannot deactivate your own account")
	}
	if err := s.repo.UpdateUserStatus(ctx, userID, false); err != nil {
		return err
	}
	s.repo.InsertAuditLog(ctx, adminID, "deactivate_user", "user", userID, nil)
	return nil
}

// ActivateUser re-enables a staff account.
func (s *Service) ActivateUser(ctx context.Context, adminID, userID uuid.UUID) error {
	if err := s.repo.UpdateUserStatus(ctx, userID, true); err != nil {
		return err
	}
	s.repo.InsertAuditLog(ctx, adminID, "activate_user", "user", userID, nil)
	return nil
}

// ChangeUserRole moves a staff account between roles. Admins cannot demote
// themselves, which keeps at least one working admin session.
func (s *Service) ChangeUserRole(ctx context.Context, adminID, userID uuid.UUID, role models.UserRole) error {
	switch role {
	case models.RoleAdmin, models.RoleEditor, models.RoleCounselor:
	default:
		return common.NewValidationError(fmt.Sprintf("unknown role %q", role))
	}
	if adminID == userID && role != models.RoleAdmin {
		return common.NewValidationError("you cannot demote your own account")
	}

	if err := s.repo.UpdateUserRole(ctx, userID, role); err != nil {
		return err
	}
	s.repo.InsertAuditLog(ctx, adminID, "change_role", "user", userID, map[string]interface{}{
		"role": string(role),
	})
	return nil
}

// --- Audit trail ---

// ListAuditLogs returns audit entries newest first.
func (s *Service) ListAuditLogs(ctx context.Context, limit, offset int, filter *AuditLogFilter) ([]*AuditLog, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListAuditLogs(ctx, limit, offset, filter)
}

// RecordAction writes an audit entry on behalf of another module.
func (s *Service) RecordAction(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, metadata map[string]interface{}) {
	s.repo.InsertAuditLog(ctx, adminID, action, targetType, targetID, metadata)
}
