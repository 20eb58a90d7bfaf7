package instrument

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListByOwner(ctx context.Context, ownerID string) ([]Instrument, error)
	GetByID(ctx context.Context, ownerID string, instrumentID uint) (*Instrument, error)
	Create(ctx context.Context, record *Instrument) error
	// Update applies the field map with the owner folded into the
	// predicate; false means no owned row matched.
	Update(ctx context.Context, instrumentID uint, ownerID string, fields map[string]any) (bool, error)
	Delete(ctx context.Context, instrumentID uint, ownerID string) (bool, error)

	ListImages(ctx context.Context, instrumentID uint) ([]Image, error)
	CountImages(ctx context.Context, instrumentID uint) (int64, error)
	AddImage(ctx context.Context, image *Image) error
	ReorderImages(ctx context.Context, instrumentID uint, orderedIDs []uint) error
	GetImage(ctx context.Context, instrumentID, imageID uint) (*Image, error)
	DeleteImage(ctx context.Context, instrumentID, imageID uint) (bool, error)

	ListRecords(ctx context.Context, instrumentID uint) ([]MaintenanceRecord, error)
	GetRecord(ctx context.Context, instrumentID, recordID uint) (*MaintenanceRecord, error)
	AddRecord(ctx context.Context, record *MaintenanceRecord) error
	UpdateRecord(ctx context.Context, instrumentID, recordID uint, fields map[string]any) (bool, error)
	DeleteRecord(ctx context.Context, instrumentID, recordID uint) (bool, error)

	ListSchedule(ctx context.Context, instrumentID uint) ([]ScheduleEntry, error)
	GetScheduleEntry(ctx context.Context, instrumentID, entryID uint) (*ScheduleEntry, error)
	AddScheduleEntry(ctx context.Context, entry *ScheduleEntry) error
	UpdateScheduleEntry(ctx context.Context, instrumentID, entryID uint, fields map[string]any) (bool, error)
	DeleteScheduleEntry(ctx context.Context, instrumentID, entryID uint) (bool, error)

	ListValues(ctx context.Context, instrumentID uint) ([]ValueEntry, error)
	LatestValue(ctx context.Context, instrumentID uint) (*ValueEntry, error)
	AddValueEntry(ctx context.Context, entry *ValueEntry) error
}
