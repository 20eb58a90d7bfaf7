package instrument

import (
	"context"
	"errors"

	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(instrumentdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]instrumentdomain.Instrument, error) {
	var records []instrumentdomain.Instrument
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, ownerID string, instrumentID uint) (*instrumentdomain.Instrument, error) {
	var record instrumentdomain.Instrument
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", instrumentID, ownerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, instrumentdomain.ErrInstrumentNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) Create(ctx context.Context, record *instrumentdomain.Instrument) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) Update(ctx context.Context, instrumentID uint, ownerID string, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&instrumentdomain.Instrument{}).
		Where("id = ? AND owner_id = ?", instrumentID, ownerID).
		Updates(fields)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) Delete(ctx context.Context, instrumentID uint, ownerID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&instrumentdomain.Instrument{}, "id = ? AND owner_id = ?", instrumentID, ownerID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListImages(ctx context.Context, instrumentID uint) ([]instrumentdomain.Image, error) {
	var images []instrumentdomain.Image
	if err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("display_order asc").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *PostgresRepository) CountImages(ctx context.Context, instrumentID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&instrumentdomain.Image{}).
		Where("instrument_id = ?", instrumentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) AddImage(ctx context.Context, image *instrumentdomain.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *PostgresRepository) ReorderImages(ctx context.Context, instrumentID uint, orderedIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for position, imageID := range orderedIDs {
			if err := tx.Model(&instrumentdomain.Image{}).
				Where("id = ? AND instrument_id = ?", imageID, instrumentID).
				Update("display_order", position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PostgresRepository) GetImage(ctx context.Context, instrumentID, imageID uint) (*instrumentdomain.Image, error) {
	var image instrumentdomain.Image
	err := r.db.WithContext(ctx).
		Where("id = ? AND instrument_id = ?", imageID, instrumentID).
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, instrumentdomain.ErrImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

func (r *PostgresRepository) DeleteImage(ctx context.Context, instrumentID, imageID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&instrumentdomain.Image{}, "id = ? AND instrument_id = ?", imageID, instrumentID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListRecords(ctx context.Context, instrumentID uint) ([]instrumentdomain.MaintenanceRecord, error) {
	var records []instrumentdomain.MaintenanceRecord
	if err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("date desc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresRepository) GetRecord(ctx context.Context, instrumentID, recordID uint) (*instrumentdomain.MaintenanceRecord, error) {
	var record instrumentdomain.MaintenanceRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND instrument_id = ?", recordID, instrumentID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, instrumentdomain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresRepository) AddRecord(ctx context.Context, record *instrumentdomain.MaintenanceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *PostgresRepository) UpdateRecord(ctx context.Context, instrumentID, recordID uint, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&instrumentdomain.MaintenanceRecord{}).
		Where("id = ? AND instrument_id = ?", recordID, instrumentID).
		Updates(fields)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteRecord(ctx context.Context, instrumentID, recordID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&instrumentdomain.MaintenanceRecord{}, "id = ? AND instrument_id = ?", recordID, instrumentID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListSchedule(ctx context.Context, instrumentID uint) ([]instrumentdomain.ScheduleEntry, error) {
	var entries []instrumentdomain.ScheduleEntry
	if err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("due_date asc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) GetScheduleEntry(ctx context.Context, instrumentID, entryID uint) (*instrumentdomain.ScheduleEntry, error) {
	var entry instrumentdomain.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("id = ? AND instrument_id = ?", entryID, instrumentID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, instrumentdomain.ErrScheduleEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) AddScheduleEntry(ctx context.Context, entry *instrumentdomain.ScheduleEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *PostgresRepository) UpdateScheduleEntry(ctx context.Context, instrumentID, entryID uint, fields map[string]any) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&instrumentdomain.ScheduleEntry{}).
		Where("id = ? AND instrument_id = ?", entryID, instrumentID).
		Updates(fields)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) DeleteScheduleEntry(ctx context.Context, instrumentID, entryID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Delete(&instrumentdomain.ScheduleEntry{}, "id = ? AND instrument_id = ?", entryID, instrumentID)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListValues(ctx context.Context, instrumentID uint) ([]instrumentdomain.ValueEntry, error) {
	var entries []instrumentdomain.ValueEntry
	if err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("date desc").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *PostgresRepository) LatestValue(ctx context.Context, instrumentID uint) (*instrumentdomain.ValueEntry, error) {
	var entry instrumentdomain.ValueEntry
	err := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order("date desc").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) AddValueEntry(ctx context.Context, entry *instrumentdomain.ValueEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
