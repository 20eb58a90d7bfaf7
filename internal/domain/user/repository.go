package user

import "context"

type Repository interface {
	// Upsert inserts the user or refreshes profile fields on conflict.
	// The stored role is never overwritten by an upsert.
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
}
