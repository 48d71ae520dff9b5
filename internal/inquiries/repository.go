package inquiries

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

const inquiryColumns = `id, full_name, email, phone, subject, message, country_slug,
	status, created_at, updated_at`

// CreateInquiry inserts a contact-form submission
func (r *Repository) CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error {
	query := `
		INSERT INTO inquiries (id, full_name, email, phone, subject, message,
			country_slug, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	inquiry.ID = uuid.New()
	err := r.db.QueryRow(ctx, query,
		inquiry.ID, inquiry.FullName, inquiry.Email, inquiry.Phone, inquiry.Subject,
		inquiry.Message, inquiry.CountrySlug, inquiry.Status,
	).Scan(&inquiry.CreatedAt, &inquiry.UpdatedAt)
	if err != nil {
		return common.NewInternalError("failed to create inquiry", err)
	}
	return nil
}

// GetInquiryByID retrieves a submission by ID
func (r *Repository) GetInquiryByID(ctx context.Context, id uuid.UUID) (*models.Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE id = $1`, inquiryColumns)

	inquiry := &models.Inquiry{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&inquiry.ID, &inquiry.FullName, &inquiry.Email, &inquiry.Phone, &inquiry.Subject,
		&inquiry.Message, &inquiry.CountrySlug, &inquiry.Status,
		&inquiry.CreatedAt, &inquiry.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("inquiry not found", err)
		}
		return nil, common.NewInternalError("failed to get inquiry", err)
	}
	return inquiry, nil
}

// ListInquiries lists submissions newest first, optionally filtered by status
func (r *Repository) ListInquiries(ctx context.Context, limit, offset int, status *models.InquiryStatus) ([]*models.Inquiry, int64, error) {
	whereClause := ""
	countArgs := []any{}
	listArgs := []any{limit, offset}
	limitClause := "LIMIT $1 OFFSET $2"
	if status != nil {
		whereClause = "WHERE status = $1"
		countArgs = append(countArgs, *status)
		listArgs = []any{*status, limit, offset}
		limitClause = "LIMIT $2 OFFSET $3"
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM inquiries %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count inquiries", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM inquiries %s
		ORDER BY created_at DESC
		%s`, inquiryColumns, whereClause, limitClause)

	rows, err := r.db.Query(ctx, query, listArgs...)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list inquiries", err)
	}
	defer rows.Close()

	inquiries := make([]*models.Inquiry, 0)
	for rows.Next() {
		inquiry := &models.Inquiry{}
		err := rows.Scan(
			&inquiry.ID, &inquiry.FullName, &inquiry.Email, &inquiry.Phone, &inquiry.Subject,
			&inquiry.Message, &inquiry.CountrySlug, &inquiry.Status,
			&inquiry.CreatedAt, &inquiry.UpdatedAt,
		)
		if err != nil {
			return nil, 0, common.NewInternalError("failed to scan inquiry", err)
		}
		inquiries = append(inquiries, inquiry)
	}
	return inquiries, total, nil
}

// UpdateInquiryStatus moves a submission between triage states
func (r *Repository) UpdateInquiryStatus(ctx context.Context, id uuid.UUID, status models.InquiryStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE inquiries SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return common.NewInternalError("failed to update inquiry", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("inquiry not found", nil)
	}
	return nil
}
