package payments

import (
	"context"
	"errors"

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

// CreatePayment creates a new payment record
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, appointment_id, gateway, gateway_ref, amount,
			currency, status, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		payment.ID,
		payment.AppointmentID,
		payment.Gateway,
		payment.GatewayRef,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.Metadata,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)

	if err != nil {
		return common.NewInternalError("failed to create payment", err)
	}

	return nil
}

// GetPaymentByID retrieves a payment by ID
func (r *Repository) GetPaymentByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := `
		SELECT id, appointment_id, gateway, gateway_ref, amount, currency,
			status, failure_reason, metadata, created_at, updated_at
		FROM payments
		WHERE id = $1`

	return r.scanPayment(r.db.QueryRow(ctx, query, id))
}

// GetPaymentByGatewayRef retrieves a payment by its gateway order/intent ID
func (r *Repository) GetPaymentByGatewayRef(ctx context.Context, gateway models.PaymentGateway, ref string) (*models.Payment, error) {
	query := `
		SELECT id, appointment_id, gateway, gateway_ref, amount, currency,
			status, failure_reason, metadata, created_at, updated_at
		FROM payments
		WHERE gateway = $1 AND gateway_ref = $2`

	return r.scanPayment(r.db.QueryRow(ctx, query, gateway, ref))
}

// UpdatePaymentStatus updates a payment's lifecycle state
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, failureReason *string) error {
	query := `
		UPDATE payments
		SET status = $2, failure_reason = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status, failureReason)
	if err != nil {
		return common.NewInternalError("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("payment not found", nil)
	}

	return nil
}

// UpdatePaymentMetadata replaces a payment's metadata document.
func (r *Repository) UpdatePaymentMetadata(ctx context.Context, id uuid.UUID, metadata map[string]interface{}) error {
	query := `
		UPDATE payments
		SET metadata = $2, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, metadata)
	if err != nil {
		return common.NewInternalError("failed to update payment metadata", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("payment not found", nil)
	}

	return nil
}

// ListPayments returns payments newest first with a total count
func (r *Repository) ListPayments(ctx context.Context, limit, offset int) ([]*models.Payment, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM payments`).Scan(&total); err != nil {
		return nil, 0, common.NewInternalError("failed to count payments", err)
	}

	query := `
		SELECT id, appointment_id, gateway, gateway_ref, amount, currency,
			status, failure_reason, metadata, created_at, updated_at
		FROM payments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, common.NewInternalError("failed to list payments", err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment, err := r.scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, payment)
	}

	return payments, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanPayment(row rowScanner) (*models.Payment, error) {
	payment := &models.Payment{}
	err := row.Scan(
		&payment.ID,
		&payment.AppointmentID,
		&payment.Gateway,
		&payment.GatewayRef,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.FailureReason,
		&payment.Metadata,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("payment not found", nil)
		}
		return nil, common.NewInternalError("failed to scan payment", err)
	}

	return payment, nil
}
