package user

// CreateUserRequest is the input for creating a user.
type CreateUserRequest struct {
	Name  string
	Email string
}

// GetUserRequest is the input for retrieving a single user.
type GetUserRequest struct {
	ID int64
}

// User is the usecase-level representation of a user record.
type User struct {
	ID    int64
	Name  string
	Email string
}
