package gig

import (
	"context"
	"errors"

	gigdomain "gear-tracker-go/internal/domain/gig"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateGig(ctx context.Context, record *gigdomain.Gig) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) GetGigByID(ctx context.Context, gigID uint) (*gigdomain.Gig, error) {
	var record gigdomain.Gig
	if err := r.db.WithContext(ctx).First(&record, "id = ?", gigID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gigdomain.ErrGigNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) ListGigsByBand(ctx context.Context, bandID uint) ([]gigdomain.Gig, error) {
	var records []gigdomain.Gig
	if err := r.db.WithContext(ctx).
		Where("band_id = ?", bandID).
		Order("start_time asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) ListGigsByUser(ctx context.Context, userID string) ([]gigdomain.Gig, error) {
	var records []gigdomain.Gig
	err := r.db.WithContext(ctx).
		Table("gigs").
		Joins("join band_members on band_members.band_id = gigs.band_id").
		Where("band_members.user_id = ?", userID).
		Order("gigs.start_time asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) UpdateGig(ctx context.Context, gigID uint, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&gigdomain.Gig{}).
		Where("id = ?", gigID).
		Updates(fields)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteGig(ctx context.Context, gigID uint) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&gigdomain.Gig{}, "id = ?", gigID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListGear(ctx context.Context, gigID uint) ([]gigdomain.GearItem, error) {
	type gearRow struct {
		gigdomain.GigGear
		InstrumentName string `gorm:"column:instrument_name"`
		InstrumentType string `gorm:"column:instrument_type"`
	}

	var rows []gearRow
	err := r.db.WithContext(ctx).
		Table("gig_gear").
		Select("gig_gear.*, instruments.name as instrument_name, instruments.type as instrument_type").
		Joins("join instruments on instruments.id = gig_gear.instrument_id").
		Where("gig_gear.gig_id = ?", gigID).
		Order("instruments.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]gigdomain.GearItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, gigdomain.GearItem{
			GigGear:        row.GigGear,
			InstrumentName: row.InstrumentName,
			InstrumentType: row.InstrumentType,
		})
	}
	return items, nil
}

func (r *PostgresRepository) GetGear(ctx context.Context, gigID, instrumentID uint) (*gigdomain.GigGear, error) {
	var gear gigdomain.GigGear
	err := r.db.WithContext(ctx).
		Where("gig_id = ? AND instrument_id = ?", gigID, instrumentID).
		First(&gear).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gigdomain.ErrGearNotFound
		}
		return nil, err
	}
	return &gear, nil
}

func (r *PostgresRepository) AddGear(ctx context.Context, gear *gigdomain.GigGear) error {
	return r.db.WithContext(ctx).Create(gear).Error
}

func (r *PostgresRepository) UpdateGear(ctx context.Context, gigID, instrumentID uint, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&gigdomain.GigGear{}).
		Where("gig_id = ? AND instrument_id = ?", gigID, instrumentID).
		Updates(fields)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteGear(ctx context.Context, gigID, instrumentID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&gigdomain.GigGear{}, "gig_id = ? AND instrument_id = ?", gigID, instrumentID)
	return result.RowsAffected > 0, result.Error
}
