package band

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	CreateBand(ctx context.Context, band *Band) error
	GetBandByID(ctx context.Context, bandID uint) (*Band, error)
	ListBandsByUser(ctx context.Context, userID string) ([]Band, error)
	UpdateBand(ctx context.Context, bandID uint, ownerID string, fields map[string]any) (bool, error)
	DeleteBand(ctx context.Context, bandID uint, ownerID string) (bool, error)

	AddMember(ctx context.Context, member *BandMember) error
	GetMember(ctx context.Context, bandID uint, userID string) (*BandMember, error)
	ListMembers(ctx context.Context, bandID uint) ([]BandMember, error)
	UpdateMemberRole(ctx context.Context, bandID uint, userID, role string) (bool, error)
	DeleteMember(ctx context.Context, bandID uint, userID string) (bool, error)
	IsMember(ctx context.Context, bandID uint, userID string) (bool, error)
}
