package gig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	banddomain "gear-tracker-go/internal/domain/band"
)

type Service struct {
	repo        Repository
	bands       MembershipChecker
	instruments OwnershipChecker
}

func NewService(repo Repository, bands MembershipChecker, instruments OwnershipChecker) *Service {
	return &Service{repo: repo, bands: bands, instruments: instruments}
}

func (s *Service) CreateGig(ctx context.Context, input CreateGigInput) (*Gig, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if input.StartTime.IsZero() {
		return nil, fmt.Errorf("start_time is required")
	}
	if input.EndTime != nil && input.EndTime.Before(input.StartTime) {
		return nil, ErrInvalidTimeRange
	}

	member, err := s.bands.IsMember(ctx, input.BandID, input.CreatedBy)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, banddomain.ErrBandNotFound
	}

	record := Gig{
		Title:       title,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Venue:       input.Venue,
		Address:     input.Address,
		City:        input.City,
		State:       input.State,
		Country:     input.Country,
		PostalCode:  input.PostalCode,
		Notes:       input.Notes,
		BandID:      input.BandID,
		CreatedBy:   input.CreatedBy,
	}
	if err := s.repo.CreateGig(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetGig is scoped to band membership; outsiders get the same signal
// as a missing gig.
func (s *Service) GetGig(ctx context.Context, userID string, gigID uint) (*Gig, error) {
	record, err := s.repo.GetGigByID(ctx, gigID)
	if err != nil {
		return nil, err
	}

	member, err := s.bands.IsMember(ctx, record.BandID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrGigNotFound
	}
	return record, nil
}

// ListGigs returns a band's gigs when bandID is set, otherwise every
// gig of every band the caller belongs to.
func (s *Service) ListGigs(ctx context.Context, userID string, bandID *uint) ([]Gig, error) {
	if bandID == nil {
		return s.repo.ListGigsByUser(ctx, userID)
	}

	member, err := s.bands.IsMember(ctx, *bandID, userID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, banddomain.ErrBandNotFound
	}
	return s.repo.ListGigsByBand(ctx, *bandID)
}

func (s *Service) UpdateGig(ctx context.Context, userID string, gigID uint, input UpdateGigInput) (*Gig, error) {
	record, err := s.GetGig(ctx, userID, gigID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("title cannot be empty")
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	start := record.StartTime
	if input.StartTime != nil {
		if input.StartTime.IsZero() {
			return nil, fmt.Errorf("start_time cannot be empty")
		}
		start = *input.StartTime
		fields["start_time"] = start
	}
	// end must stay at or after start, whether either side comes from
	// the request or from the stored gig.
	end := record.EndTime
	if input.EndTime != nil {
		end = input.EndTime
		fields["end_time"] = *input.EndTime
	}
	if end != nil && end.Before(start) {
		return nil, ErrInvalidTimeRange
	}
	if input.Venue != nil {
		fields["venue"] = *input.Venue
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if input.City != nil {
		fields["city"] = *input.City
	}
	if input.State != nil {
		fields["state"] = *input.State
	}
	if input.Country != nil {
		fields["country"] = *input.Country
	}
	if input.PostalCode != nil {
		fields["postal_code"] = *input.PostalCode
	}
	if input.Notes != nil {
		fields["notes"] = *input.Notes
	}

	if len(fields) > 0 {
		updated, err := s.repo.UpdateGig(ctx, gigID, fields)
		if err != nil {
			return nil, err
		}
		if !updated {
			return nil, ErrGigNotFound
		}
	}

	return s.repo.GetGigByID(ctx, gigID)
}

func (s *Service) DeleteGig(ctx context.Context, userID string, gigID uint) error {
	if _, err := s.GetGig(ctx, userID, gigID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteGig(ctx, gigID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGigNotFound
	}
	return nil
}

func (s *Service) ListGear(ctx context.Context, userID string, gigID uint) ([]GearItem, error) {
	if _, err := s.GetGig(ctx, userID, gigID); err != nil {
		return nil, err
	}
	return s.repo.ListGear(ctx, gigID)
}

// AddGear rejects a duplicate (gig, instrument) pair rather than
// upserting; the unique constraint backs the same rule in the store.
func (s *Service) AddGear(ctx context.Context, userID string, gigID, instrumentID uint, notes *string) (*GigGear, error) {
	if _, err := s.GetGig(ctx, userID, gigID); err != nil {
		return nil, err
	}

	owns, err := s.instruments.OwnsInstrument(ctx, userID, instrumentID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrInstrumentNotFound
	}

	if _, err := s.repo.GetGear(ctx, gigID, instrumentID); err == nil {
		return nil, ErrGearAlreadyListed
	} else if !errors.Is(err, ErrGearNotFound) {
		return nil, err
	}

	gear := GigGear{
		GigID:        gigID,
		InstrumentID: instrumentID,
		Notes:        notes,
	}
	if err := s.repo.AddGear(ctx, &gear); err != nil {
		return nil, err
	}
	return &gear, nil
}

func (s *Service) SetGearPacked(ctx context.Context, userID string, gigID, instrumentID uint, packed bool) error {
	if _, err := s.GetGig(ctx, userID, gigID); err != nil {
		return err
	}

	updated, err := s.repo.UpdateGear(ctx, gigID, instrumentID, map[string]any{"is_packed": packed})
	if err != nil {
		return err
	}
	if !updated {
		return ErrGearNotFound
	}
	return nil
}

func (s *Service) RemoveGear(ctx context.Context, userID string, gigID, instrumentID uint) error {
	if _, err := s.GetGig(ctx, userID, gigID); err != nil {
		return err
	}

	deleted, err := s.repo.DeleteGear(ctx, gigID, instrumentID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrGearNotFound
	}
	return nil
}
