package user

// User represents a user record in the system.
type User struct {
	ID    int64  // ID is assigned by storage on insert and never reused
	Name  string // Name is the full name of the user
	Email string // Email is unique across all records
}
