package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/globalpath/platform/pkg/models"
)

// AuditLog records a back-office mutation for traceability
type AuditLog struct {
	ID         uuid.UUID              `json:"id"`
	AdminID    uuid.UUID              `json:"admin_id"`
	AdminEmail string                 `json:"admin_email,omitempty"`
	Action     string                 `json:"action"`
	TargetType string                 `json:"target_type"`
	TargetID   uuid.UUID              `json:"target_id"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AuditLogFilter narrows audit log listings
type AuditLogFilter struct {
	AdminID    *uuid.UUID
	Action     string
	TargetType string
}

// DashboardStats is the back-office landing page summary
type DashboardStats struct {
	AppointmentsToday     int64 `json:"appointments_today"`
	PendingAppointments   int64 `json:"pending_appointments"`
	RevenueThisMonth      int64 `json:"revenue_this_month"`
	PaymentsThisMonth     int64 `json:"payments_this_month"`
	PublishedCountries    int64 `json:"published_countries"`
	PublishedUniversities int64 `json:"published_universities"`
	PublishedPrograms     int64 `json:"published_programs"`
	PublishedPosts        int64 `json:"published_posts"`
	NewInquiries          int64 `json:"new_inquiries"`
}

// RepositoryInterface defines the contract for admin repository operations
type RepositoryInterface interface {
	// Staff accounts
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, int64, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUserStatus(ctx context.Context, id uuid.UUID, isActive bool) error
	UpdateUserRole(ctx context.Context, id uuid.UUID, role models.UserRole) error

	// Dashboard
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)

	// Audit logging
	InsertAuditLog(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, metadata map[string]interface{})
	ListAuditLogs(ctx context.Context, limit, offset int, filter *AuditLogFilter) ([]*AuditLog, int64, error)
}
