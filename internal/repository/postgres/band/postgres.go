package band

import (
	"context"
	"errors"

	banddomain "gear-tracker-go/internal/domain/band"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(banddomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateBand(ctx context.Context, record *banddomain.Band) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetBandByID(ctx context.Context, bandID uint) (*banddomain.Band, error) {
	var record banddomain.Band
	if err := r.db.WithContext(ctx).First(&record, "id = ?", bandID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, banddomain.ErrBandNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListBandsByUser(ctx context.Context, userID string) ([]banddomain.Band, error) {
	var records []banddomain.Band
	err := r.db.WithContext(ctx).
		Table("bands").
		Joins("join band_members on band_members.band_id = bands.id").
		Where("band_members.user_id = ?", userID).
		Order("bands.name asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) UpdateBand(ctx context.Context, bandID uint, ownerID string, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&banddomain.Band{}).
		Where("id = ? AND owner_id = ?", bandID, ownerID).
		Updates(fields)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteBand(ctx context.Context, bandID uint, ownerID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&banddomain.Band{}, "id = ? AND owner_id = ?", bandID, ownerID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *banddomain.BandMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) GetMember(ctx context.Context, bandID uint, userID string) (*banddomain.BandMember, error) {
	var member banddomain.BandMember
	if err := r.db.WithContext(ctx).Where("band_id = ? AND user_id = ?", bandID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, banddomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, bandID uint) ([]banddomain.BandMember, error) {
	var members []banddomain.BandMember
	if err := r.db.WithContext(ctx).
		Where("band_id = ?", bandID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) UpdateMemberRole(ctx context.Context, bandID uint, userID, role string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&banddomain.BandMember{}).
		Where("band_id = ? AND user_id = ?", bandID, userID).
		Update("role", role)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, bandID uint, userID string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&banddomain.BandMember{}, "band_id = ? AND user_id = ?", bandID, userID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) IsMember(ctx context.Context, bandID uint, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&banddomain.BandMember{}).
		Where("band_id = ? AND user_id = ?", bandID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
