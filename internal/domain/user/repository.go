package user

import "context"

// Repository describes user persistence needs from use cases.
type Repository interface {
	// List returns users ordered by username, then id.
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, userID string) (User, bool, error)
	// UpsertIdentity creates the user or refreshes username, email and role,
	// leaving profile fields untouched.
	UpsertIdentity(ctx context.Context, identity Identity) (User, error)
	UpdateProfile(ctx context.Context, userID string, profile Profile) (User, bool, error)
}
