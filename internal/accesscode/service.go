// Package accesscode implements the paid access-code lifecycle: issuing
// short-lived codes after a completed payment and verifying them before a
// session is established.
package accesscode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	// maxIssueAttempts bounds code regeneration when a generated code
	// collides with an existing row.
	maxIssueAttempts = 5
)

var (
	// ErrInvalidCode is returned when a code does not exist, has expired,
	// or (in single-use mode) was already redeemed. Callers deliberately
	// get one error for all three cases so responses do not reveal
	// whether a guessed code ever existed.
	ErrInvalidCode = errors.New("invalid or expired access code")
	// ErrIssueExhausted is returned when repeated code collisions prevent
	// issuance
	ErrIssueExhausted = errors.New("could not issue a unique access code")
)

// Store defines the persistence operations the lifecycle needs
type Store interface {
	Create(ctx context.Context, ac *AccessCode) (*AccessCode, error)
	FindByCode(ctx context.Context, code string) (*AccessCode, error)
	FindByPaymentID(ctx context.Context, paymentID string) (*AccessCode, error)
	Consume(ctx context.Context, code string, now time.Time) (*AccessCode, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Service defines the access code lifecycle operations
type Service interface {
	Issue(ctx context.Context, role, paymentID string) (*AccessCode, error)
	Verify(ctx context.Context, code string) (*AccessCode, error)
	ReapExpired(ctx context.Context) (int64, error)
}

type service struct {
	store     Store
	generator Generator
	ttl       time.Duration
	singleUse bool
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates the access code lifecycle service. ttl is the validity
// window of issued codes; singleUse controls whether verification consumes
// the code.
func NewService(store Store, generator Generator, ttl time.Duration, singleUse bool, logger *slog.Logger) Service {
	return &service{
		store:     store,
		generator: generator,
		ttl:       ttl,
		singleUse: singleUse,
		now:       time.Now,
		logger:    logger,
	}
}

// Issue creates and persists a new access code granting the given role.
//
// When paymentID is non-empty the operation is idempotent per payment:
// a payment provider that delivers the same confirmation twice gets the
// already-issued code back instead of a second one. A generated code that
// collides with an existing row is regenerated a bounded number of times.
func (s *service) Issue(ctx context.Context, role, paymentID string) (*AccessCode, error) {
	if paymentID != "" {
		existing, err := s.store.FindByPaymentID(ctx, paymentID)
		if err == nil {
			s.logger.Warn("Duplicate payment confirmation, returning existing code",
				"payment_id", paymentID)
			return existing, nil
		}
		if !errors.Is(err, ErrCodeNotFound) {
			return nil, err
		}
	}

	var pid *string
	if paymentID != "" {
		pid = &paymentID
	}

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		ac := &AccessCode{
			Code:      s.generator.Generate(),
			Role:      role,
			PaymentID: pid,
			ExpiresAt: s.now().Add(s.ttl),
		}

		created, err := s.store.Create(ctx, ac)
		if err == nil {
			s.logger.Info("Issued access code",
				"role", role,
				"expires_at", created.ExpiresAt,
				"attempt", attempt)
			return created, nil
		}

		if errors.Is(err, ErrDuplicateCode) {
			s.logger.Warn("Access code collision, regenerating", "attempt", attempt)
			continue
		}

		// Two Issue calls raced on the same payment id; the earlier
		// insert wins and its code is returned.
		if errors.Is(err, ErrDuplicatePayment) && paymentID != "" {
			return s.store.FindByPaymentID(ctx, paymentID)
		}

		return nil, err
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrIssueExhausted, maxIssueAttempts)
}

// Verify checks a code and returns its record when it grants access. A code
// verifies successfully iff it exists and has not expired; in single-use mode
// it must additionally not have been redeemed before, and a successful verify
// marks it redeemed atomically.
func (s *service) Verify(ctx context.Context, code string) (*AccessCode, error) {
	if code == "" {
		return nil, ErrInvalidCode
	}

	now := s.now()

	if s.singleUse {
		ac, err := s.store.Consume(ctx, code, now)
		if errors.Is(err, ErrCodeNotFound) {
			return nil, ErrInvalidCode
		}
		if err != nil {
			return nil, err
		}
		return ac, nil
	}

	ac, err := s.store.FindByCode(ctx, code)
	if errors.Is(err, ErrCodeNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, err
	}

	if ac.Expired(now) {
		return nil, ErrInvalidCode
	}

	return ac, nil
}

// ReapExpired deletes codes past their expiration
func (s *service) ReapExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, s.now())
}

// StartReaper runs periodic reclamation of expired codes until ctx is
// cancelled. Expired codes are already filtered at read time; the reaper only
// keeps the table from growing without bound.
func StartReaper(ctx context.Context, svc Service, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := svc.ReapExpired(ctx)
				if err != nil {
					logger.Error("Failed to reap expired access codes", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("Reaped expired access codes", "deleted", deleted)
				}
			}
		}
	}()
}
