package band

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateBand inserts the band together with its owner membership row.
func (s *Service) CreateBand(ctx context.Context, input CreateBandInput) (*Band, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var result Band
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		record := Band{
			Name:        name,
			Description: input.Description,
			PhotoURL:    input.PhotoURL,
			OwnerID:     input.OwnerID,
		}
		if err := tx.CreateBand(ctx, &record); err != nil {
			return err
		}

		member := BandMember{
			BandID: record.ID,
			UserID: input.OwnerID,
			Role:   MemberRoleOwner,
		}
		if err := tx.AddMember(ctx, &member); err != nil {
			return err
		}

		result = record
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetBand returns the band only when the caller belongs to it;
// non-members get the same signal as a missing band.
func (s *Service) GetBand(ctx context.Context, userID string, bandID uint) (*Band, error) {
	member, err := s.repo.IsMember(ctx, bandID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrBandNotFound
	}
	return s.repo.GetBandByID(ctx, bandID)
}

func (s *Service) ListBands(ctx context.Context, userID string) ([]Band, error) {
	return s.repo.ListBandsByUser(ctx, userID)
}

func (s *Service) UpdateBand(ctx context.Context, userID string, bandID uint, input UpdateBandInput) (*Band, error) {
	if err := s.requireOwner(ctx, userID, bandID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		fields["name"] = name
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.PhotoURL != nil {
		fields["photo_url"] = *input.PhotoURL
	}

	if len(fields) > 0 {
		updated, err := s.repo.UpdateBand(ctx, bandID, userID, fields)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrBandNotFound
		}
	}

	return s.repo.GetBandByID(ctx, bandID)
}

// DeleteBand removes the band; members and gigs go with it by cascade,
// instruments keep their rows and lose the band association.
func (s *Service) DeleteBand(ctx context.Context, userID string, bandID uint) error {
	if err := s.requireOwner(ctx, userID, bandID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteBand(ctx, bandID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBandNotFound
	}
	return nil
}

// AddMember rejects a duplicate (band, user) pair rather than
// upserting; the unique constraint backs the same rule in the store.
func (s *Service) AddMember(ctx context.Context, actorID string, bandID uint, userID, role string) (*BandMember, error) {
	if err := s.requireOwner(ctx, actorID, bandID); err != nil {
		return nil, err
	}

	if role == "" {
		role = MemberRoleMember
	}
	if role == MemberRoleOwner || !ValidMemberRole(role) {
		return nil, fmt.Errorf("invalid member role %q", role)
	}

	if _, err := s.repo.GetMember(ctx, bandID, userID); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, ErrMemberNotFound) {
		return nil, err
	}

	member := BandMember{
		BandID: bandID,
		UserID: userID,
		Role:   role,
	}
	if err := s.repo.AddMember(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (s *Service) ListMembers(ctx context.Context, userID string, bandID uint) ([]BandMember, error) {
	member, err := s.repo.IsMember(ctx, bandID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrBandNotFound
	}
	return s.repo.ListMembers(ctx, bandID)
}

func (s *Service) UpdateMemberRole(ctx context.Context, actorID string, bandID uint, userID, role string) error {
	if err := s.requireOwner(ctx, actorID, bandID); err != nil {
		return err
	}
	if role == MemberRoleOwner || !ValidMemberRole(role) {
		return fmt.Errorf("invalid member role %q", role)
	}

	member, err := s.repo.GetMember(ctx, bandID, userID)
	if err != nil {
		return err
	}
	if member.Role == MemberRoleOwner {
		return ErrCannotRemoveOwner
	}

	updated, err := s.repo.UpdateMemberRole(ctx, bandID, userID, role)
	if err != nil {
		return err
	}
	if !updated {
		return ErrMemberNotFound
	}
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, actorID string, bandID uint, userID string) error {
	if err := s.requireOwner(ctx, actorID, bandID); err != nil {
		return err
	}

	member, err := s.repo.GetMember(ctx, bandID, userID)
	if err != nil {
		return err
	}
	if member.Role == MemberRoleOwner {
		return ErrCannotRemoveOwner
	}

	deleted, err := s.repo.DeleteMember(ctx, bandID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrMemberNotFound
	}
	return nil
}

func (s *Service) requireOwner(ctx context.Context, userID string, bandID uint) error {
	member, err := s.repo.IsMember(ctx, bandID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrBandNotFound
	}

	record, err := s.repo.GetBandByID(ctx, bandID)
	if err != nil {
		return err
	}
	if record.OwnerID != userID {
		return ErrNotBandOwner
	}
	return nil
}
