package gig

import "context"

type Repository interface {
	CreateGig(ctx context.Context, record *Gig) error
	GetGigByID(ctx context.Context, gigID uint) (*Gig, error)
	ListGigsByBand(ctx context.Context, bandID uint) ([]Gig, error)
	ListGigsByUser(ctx context.Context, userID string) ([]Gig, error)
	UpdateGig(ctx context.Context, gigID uint, fields map[string]any) (bool, error)
	DeleteGig(ctx context.Context, gigID uint) (bool, error)

	ListGear(ctx context.Context, gigID uint) ([]GearItem, error)
	GetGear(ctx context.Context, gigID, instrumentID uint) (*GigGear, error)
	AddGear(ctx context.Context, gear *GigGear) error
	UpdateGear(ctx context.Context, gigID, instrumentID uint, fields map[string]any) (bool, error)
	DeleteGear(ctx context.Context, gigID, instrumentID uint) (bool, error)
}

// MembershipChecker answers whether a user belongs to a band; gig
// access is scoped to band membership.
type MembershipChecker interface {
	IsMember(ctx context.Context, bandID uint, userID string) (bool, error)
}

// OwnershipChecker answers whether a user owns an instrument; only
// owned instruments can be put on a packing list.
type OwnershipChecker interface {
	OwnsInstrument(ctx context.Context, ownerID string, instrumentID uint) (bool, error)
}
