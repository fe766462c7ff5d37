package accesscode

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"gatecode/internal/database"
)

var (
	// ErrCodeNotFound is returned when no record exists for a code
	ErrCodeNotFound = errors.New("access code not found")
	// ErrDuplicateCode is returned when a generated code collides with an
	// existing one; the caller regenerates and retries
	ErrDuplicateCode = errors.New("access code already exists")
	// ErrDuplicatePayment is returned when a code was already issued for
	// the payment id
	ErrDuplicatePayment = errors.New("access code already issued for payment")
)

// Repository handles all database operations for access codes
type Repository struct {
	db database.Service
}

// NewRepository creates a new access code repository
func NewRepository(db database.Service) *Repository {
	return &Repository{db: db}
}

// Create inserts a new access code record. The code column carries a unique
// constraint, so a random collision surfaces as ErrDuplicateCode rather than
// two valid records sharing one code.
func (r *Repository) Create(ctx context.Context, ac *AccessCode) (*AccessCode, error) {
	query := `
		INSERT INTO access_codes (id, code, role, payment_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, code, role, payment_id, expires_at, consumed_at, created_at
	`

	created := &AccessCode{}
	err := r.db.QueryRow(ctx, query, uuid.New().String(), ac.Code, ac.Role, ac.PaymentID, ac.ExpiresAt).Scan(
		&created.ID,
		&created.Code,
		&created.Role,
		&created.PaymentID,
		&created.ExpiresAt,
		&created.ConsumedAt,
		&created.CreatedAt,
	)

	if err != nil {
		if name, ok := uniqueViolation(err); ok {
			switch name {
			case "access_codes_code_key":
				return nil, ErrDuplicateCode
			case "access_codes_payment_id_key":
				return nil, ErrDuplicatePayment
			}
		}
		return nil, fmt.Errorf("failed to create access code: %w", err)
	}

	return created, nil
}

// FindByCode retrieves an access code by its code string
func (r *Repository) FindByCode(ctx context.Context, code string) (*AccessCode, error) {
	query := `
		SELECT id, code, role, payment_id, expires_at, consumed_at, created_at
		FROM access_codes
		WHERE code = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, code))
}

// FindByPaymentID retrieves the access code issued for a payment, if any
func (r *Repository) FindByPaymentID(ctx context.Context, paymentID string) (*AccessCode, error) {
	query := `
		SELECT id, code, role, payment_id, expires_at, consumed_at, created_at
		FROM access_codes
		WHERE payment_id = $1
	`

	return r.scanOne(r.db.QueryRow(ctx, query, paymentID))
}

// Consume atomically marks a code as redeemed. It succeeds only for a code
// that is still unconsumed and unexpired at the given time, so of any number
// of concurrent verifications exactly one wins.
func (r *Repository) Consume(ctx context.Context, code string, now time.Time) (*AccessCode, error) {
	query := `
		UPDATE access_codes
		SET consumed_at = $2
		WHERE code = $1 AND consumed_at IS NULL AND expires_at > $2
		RETURNING id, code, role, payment_id, expires_at, consumed_at, created_at
	`

	return r.scanOne(r.db.QueryRow(ctx, query, code, now))
}

// DeleteExpired removes all codes past their expiration and returns the
// number of rows reclaimed.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM access_codes WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired access codes: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) scanOne(row pgx.Row) (*AccessCode, error) {
	ac := &AccessCode{}
	err := row.Scan(
		&ac.ID,
		&ac.Code,
		&ac.Role,
		&ac.PaymentID,
		&ac.ExpiresAt,
		&ac.ConsumedAt,
		&ac.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read access code: %w", err)
	}

	return ac, nil
}

// uniqueViolation reports whether err is a Postgres unique constraint
// violation, returning the constraint name when it is.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}
