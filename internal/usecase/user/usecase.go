package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/yashness/azure-swa-demo/internal/domain/user"
	apperrors "github.com/yashness/azure-swa-demo/pkg/errors"
)

// seedUsers is the fixed sample set inserted on first run.
var seedUsers = []domain.User{
	{Name: "Alice Johnson", Email: "alice@example.com"},
	{Name: "Bob Smith", Email: "bob@example.com"},
	{Name: "Charlie Brown", Email: "charlie@example.com"},
	{Name: "Diana Prince", Email: "diana@example.com"},
	{Name: "Eve Wilson", Email: "eve@example.com"},
}

// Usecase implements the business logic for user record operations,
// including the startup schema/seed sequence.
type Usecase struct {
	repo Repository
	log  *zap.Logger

	// Retry budget for the startup sequence. The networked backend may
	// refuse connections while it wakes from suspension.
	maxAttempts int
	baseBackoff time.Duration
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:        r,
		log:         log,
		maxAttempts: 3,
		baseBackoff: time.Second,
	}
}

// Bootstrap runs the startup sequence: idempotent schema creation followed
// by conditional seeding, each under a bounded retry with exponential
// backoff. An exhausted retry budget is reported to the caller but must not
// crash the process; the service keeps answering health checks in a
// degraded state so operators can diagnose it.
func (uc *Usecase) Bootstrap(ctx context.Context) error {
	if err := uc.withRetry(ctx, "schema creation", func() error {
		return uc.repo.Migrate(ctx)
	}); err != nil {
		return fmt.Errorf("schema creation failed after retries: %w", err)
	}

	if err := uc.withRetry(ctx, "seeding", func() error {
		return uc.seed(ctx)
	}); err != nil {
		return fmt.Errorf("seeding failed after retries: %w", err)
	}

	return nil
}

// seed inserts the fixed sample set when the table is empty. Multiple
// workers may race here against a shared backend; the email uniqueness
// constraint is the arbitration point, so a duplicate-key failure means a
// concurrent racer already seeded and is treated as success.
func (uc *Usecase) seed(ctx context.Context) error {
	count, err := uc.repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		uc.log.Info("database already has users, skipping seed", zap.Int64("count", count))
		return nil
	}

	if err := uc.repo.CreateAll(ctx, seedUsers); err != nil {
		var exists *apperrors.AlreadyExistsError
		if errors.As(err, &exists) {
			uc.log.Info("seed skipped, another worker already seeded", zap.Error(err))
			return nil
		}
		return err
	}

	uc.log.Info("database seeded with sample users", zap.Int("count", len(seedUsers)))
	return nil
}

// withRetry runs op up to maxAttempts times with exponential backoff
// (base, 2*base, ...). A plain loop on purpose, no hidden machinery.
func (uc *Usecase) withRetry(ctx context.Context, name string, op func() error) error {
	var lastErr error
	backoff := uc.baseBackoff

	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		if err := op(); err != nil {
			lastErr = err
			uc.log.Warn("startup step failed",
				zap.String("step", name),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", uc.maxAttempts),
				zap.Error(err),
			)
			if attempt < uc.maxAttempts {
				select {
				case <-time.After(backoff):
				case <-ctx.Done():
					return ctx.Err()
				}
				backoff *= 2
			}
			continue
		}
		return nil
	}

	return lastErr
}

// CreateUser creates a new user record. A duplicate email surfaces as a
// typed conflict error for the transport layer to translate.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*User, error) {
	uc.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	id, err := uc.repo.Create(ctx, &domain.User{
		Name:  in.Name,
		Email: in.Email,
	})
	if err != nil {
		return nil, err
	}

	return &User{
		ID:    id,
		Name:  in.Name,
		Email: in.Email,
	}, nil
}

// GetUser retrieves a user by ID.
func (uc *Usecase) GetUser(ctx context.Context, in GetUserRequest) (*User, error) {
	if in.ID <= 0 {
		uc.log.Warn("get user validation failed", zap.Int64("id", in.ID))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: id=%d", in.ID))
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}, nil
}

// ListUsers retrieves all user records. An empty table yields an empty
// slice, not an error.
func (uc *Usecase) ListUsers(ctx context.Context) ([]User, error) {
	domainUsers, err := uc.repo.List(ctx)
	if err != nil {
		uc.log.Error("failed to list users", zap.Error(err))
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = User{
			ID:    du.ID,
			Name:  du.Name,
			Email: du.Email,
		}
	}

	return users, nil
}
