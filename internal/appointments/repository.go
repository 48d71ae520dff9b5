package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globalpath/platform/pkg/common"
	"github.com/globalpath/platform/pkg/models"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const appointmentColumns = `id, full_name, email, phone, service, country_slug,
	message, preferred_at, status, assigned_to, cancel_reason, created_at, updated_at`

// CreateAppointment inserts a new booking in pending state
func (r *Repository) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	query := `
		INSERT INTO appointments (id, full_name, email, phone, service, country_slug,
			message, preferred_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`

	appointment.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		appointment.ID, appointment.FullName, appointment.Email, appointment.Phone,
		appointment.Service, appointment.CountrySlug, appointment.Message,
		appointment.PreferredAt, appointment.Status,
	).Scan(&appointment.CreatedAt, &appointment.UpdatedAt)
	if err != nil {
		return common.NewInternalError("failed to create appointment", err)
	}
	return nil
}

// GetAppointmentByID retrieves a booking by ID
func (r *Repository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)

	appointment := &models.Appointment{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&appointment.ID, &appointment.FullName, &appointment.Email, &appointment.Phone,
		&appointment.Service, &appointment.CountrySlug, &appointment.Message,
		&appointment.PreferredAt, &appointment.Status, &appointment.AssignedTo,
		&appointment.CancelReason, &appointment.CreatedAt, &appointment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("appointment not found", err)
		}
		return nil, common.NewInternalError("failed to get appointment", err)
	}
	return appointment, nil
}

// ListAppointments lists bookings newest first, optionally filtered by status
func (r *Repository) ListAppointments(ctx context.Context, limit, offset int, status *models.AppointmentStatus) ([]*models.Appointment, int64, error) {
	whereClause := ""
	countArgs := []any{}
	listArgs := []any{limit, offset}
	if status != nil {
		whereClause = "WHERE status = $1"
		countArgs = append(countArgs, *status)
		listArgs = []any{*status, limit, offset}
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM appointments %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count appointments", err)
	}

	limitClause := "LIMIT $1 OFFSET $2"
	if status != nil {
		limitClause = "LIMIT $2 OFFSET $3"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM appointments %s
		ORDER BY created_at DESC
		%s`, appointmentColumns, whereClause, limitClause)

	rows, err := r.db.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list appointments", err)
	}
	defer rows.Close()

	appointments := make([]*models.Appointment, 0)
	for rows.Next() {
		appointment := &models.Appointment{}
		err := rows.Scan(
			&appointment.ID, &appointment.FullName, &appointment.Email, &appointment.Phone,
			&appointment.Service, &appointment.CountrySlug, &appointment.Message,
			&appointment.PreferredAt, &appointment.Status, &appointment.AssignedTo,
			&appointment.CancelReason, &appointment.CreatedAt, &appointment.UpdatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan appointment", err)
		}
		appointments = append(appointments, appointment)
	}
	return appointments, total, nil
}

// UpdateAppointment updates a booking's mutable fields
func (r *Repository) UpdateAppointment(ctx context.Context, appointment *models.Appointment) error {
	query := `
		UPDATE appointments
		SET status = $2, assigned_to = $3, cancel_reason = $4, preferred_at = $5,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		appointment.ID, appointment.Status, appointment.AssignedTo,
		appointment.CancelReason, appointment.PreferredAt,
	).Scan(&appointment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("appointment not found", err)
		}
		return common.NewInternalError("failed to update appointment", err)
	}
	return nil
}
