package user

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertUser records the principal on first authentication and keeps
// profile fields current on subsequent requests.
func (s *Service) UpsertUser(ctx context.Context, userID, email, displayName, photoURL string) error {
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}

	record := User{ID: userID, Email: email, Role: RoleUser}
	if displayName != "" {
		record.DisplayName = &displayName
	}
	if photoURL != "" {
		record.PhotoURL = &photoURL
	}

	return s.repo.Upsert(ctx, &record)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}
