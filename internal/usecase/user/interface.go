package user

import (
	"context"

	domain "github.com/yashness/azure-swa-demo/internal/domain/user"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer so the same business logic runs against
// the embedded SQLite backend and the networked postgres backend.
type Repository interface {
	Migrate(ctx context.Context) error                            // Idempotently ensure the users table exists
	Create(ctx context.Context, u *domain.User) (int64, error)    // Create a new user
	CreateAll(ctx context.Context, users []domain.User) error     // Insert a batch of users atomically
	GetByID(ctx context.Context, id int64) (*domain.User, error)  // Retrieve user by ID
	List(ctx context.Context) ([]domain.User, error)              // List all users
	Count(ctx context.Context) (int64, error)                     // Count user rows
}

// Service is the transport-facing interface implemented by Usecase.
type Service interface {
	Bootstrap(ctx context.Context) error
	CreateUser(ctx context.Context, in CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, in GetUserRequest) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
}
