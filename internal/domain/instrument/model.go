package instrument

import (
	"time"

	banddomain "gear-tracker-go/internal/domain/band"
	userdomain "gear-tracker-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

// Value history sources.
const (
	SourceManual       = "manual"
	SourceAppraisal    = "appraisal"
	SourceMarketLookup = "market_lookup"
)

// Maintenance schedule recurrence types.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// Instrument is the aggregate root for images, maintenance records,
// schedule entries and value history. Deleting it cascades to all
// four; deleting its band only clears the association.
type Instrument struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	Name            string           `gorm:"not null" json:"name"`
	Type            string           `gorm:"not null" json:"type"`
	Make            *string          `json:"make"`
	Model           *string          `json:"model"`
	SerialNumber    *string          `json:"serial_number"`
	PurchaseDate    *time.Time       `gorm:"type:date" json:"purchase_date"`
	PurchasePrice   *decimal.Decimal `gorm:"type:numeric(10,2)" json:"purchase_price"`
	CurrentValue    *decimal.Decimal `gorm:"type:numeric(10,2)" json:"current_value"`
	Description     *string          `gorm:"type:text" json:"description"`
	Condition       *string          `json:"condition"`
	Insured         bool             `gorm:"not null;default:false" json:"insured"`
	InsurancePolicy *string          `json:"insurance_policy"`
	Notes           *string          `gorm:"type:text" json:"notes"`
	StorageLocation *string          `json:"storage_location"`
	IsActive        bool             `gorm:"not null;default:true" json:"is_active"`
	OwnerID         string           `gorm:"not null;index" json:"owner_id"`
	BandID          *uint            `gorm:"index" json:"band_id"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Owner *userdomain.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Band  *banddomain.Band `gorm:"foreignKey:BandID;constraint:OnDelete:SET NULL" json:"-"`
}

type Image struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	InstrumentID uint      `gorm:"not null;index" json:"instrument_id"`
	ImageURL     string    `gorm:"not null" json:"image_url"`
	ThumbnailURL *string   `json:"thumbnail_url"`
	Caption      *string   `json:"caption"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Instrument *Instrument `gorm:"foreignKey:InstrumentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Image) TableName() string { return "instrument_images" }

type MaintenanceRecord struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	InstrumentID uint             `gorm:"not null;index" json:"instrument_id"`
	Type         string           `gorm:"not null" json:"type"`
	Title        string           `gorm:"not null" json:"title"`
	Description  *string          `gorm:"type:text" json:"description"`
	Date         time.Time        `gorm:"type:date;not null" json:"date"`
	Cost         *decimal.Decimal `gorm:"type:numeric(10,2)" json:"cost"`
	PerformedBy  *string          `json:"performed_by"`
	Location     *string          `json:"location"`
	Notes        *string          `gorm:"type:text" json:"notes"`
	UserID       string           `gorm:"not null" json:"user_id"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	Instrument *Instrument      `gorm:"foreignKey:InstrumentID;constraint:OnDelete:CASCADE" json:"-"`
	User       *userdomain.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type ScheduleEntry struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	InstrumentID       uint      `gorm:"not null;index" json:"instrument_id"`
	Type               string    `gorm:"not null" json:"type"`
	Title              string    `gorm:"not null" json:"title"`
	Description        *string   `gorm:"type:text" json:"description"`
	DueDate            time.Time `gorm:"type:date;not null" json:"due_date"`
	RecurrenceType     string    `gorm:"type:varchar(16);not null;default:none" json:"recurrence_type"`
	RecurrenceInterval *int      `json:"recurrence_interval"`
	ReminderEnabled    bool      `gorm:"not null;default:true" json:"reminder_enabled"`
	ReminderDaysBefore int       `gorm:"not null;default:7" json:"reminder_days_before"`
	UserID             string    `gorm:"not null" json:"user_id"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Instrument *Instrument      `gorm:"foreignKey:InstrumentID;constraint:OnDelete:CASCADE" json:"-"`
	User       *userdomain.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ScheduleEntry) TableName() string { return "maintenance_schedule" }

// ValueEntry is append-only; rows are never updated in place.
type ValueEntry struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	InstrumentID uint            `gorm:"not null;index" json:"instrument_id"`
	Value        decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"value"`
	Date         time.Time       `gorm:"not null" json:"date"`
	Source       string          `gorm:"type:varchar(16);not null;default:manual" json:"source"`
	Notes        *string         `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	Instrument *Instrument `gorm:"foreignKey:InstrumentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ValueEntry) TableName() string { return "value_history" }

// Detail is the instrument merged with its four child collections.
// The collections come from independent queries and may trail the
// instrument row slightly.
type Detail struct {
	Instrument
	Images              []Image             `json:"images"`
	MaintenanceRecords  []MaintenanceRecord `json:"maintenance_records"`
	MaintenanceSchedule []ScheduleEntry     `json:"maintenance_schedule"`
	ValueHistory        []ValueEntry        `json:"value_history"`
}

func ValidSource(source string) bool {
	switch source {
	case SourceManual, SourceAppraisal, SourceMarketLookup:
		return true
	}
	return false
}

func ValidRecurrence(recurrence string) bool {
	switch recurrence {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

type CreateInstrumentInput struct {
	OwnerID         string
	Name            string
	Type            string
	Make            *string
	Model           *string
	SerialNumber    *string
	PurchaseDate    *time.Time
	PurchasePrice   *decimal.Decimal
	CurrentValue    *decimal.Decimal
	Description     *string
	Condition       *string
	Insured         *bool
	InsurancePolicy *string
	Notes           *string
	StorageLocation *string
	BandID          *uint
}

// UpdateInstrumentInput carries only the fields a caller supplied;
// nil means "leave unchanged".
type UpdateInstrumentInput struct {
	Name            *string
	Type            *string
	Make            *string
	Model           *string
	SerialNumber    *string
	PurchaseDate    *time.Time
	PurchasePrice   *decimal.Decimal
	CurrentValue    *decimal.Decimal
	Description     *string
	Condition       *string
	Insured         *bool
	InsurancePolicy *string
	Notes           *string
	StorageLocation *string
	BandID          *uint
	IsActive        *bool
}

type AddImageInput struct {
	ImageURL     string
	ThumbnailURL *string
	Caption      *string
	DisplayOrder *int
}

type RecordInput struct {
	Type        string
	Title       string
	Description *string
	Date        time.Time
	Cost        *decimal.Decimal
	PerformedBy *string
	Location    *string
	Notes       *string
}

type UpdateRecordInput struct {
	Type        *string
	Title       *string
	Description *string
	Date        *time.Time
	Cost        *decimal.Decimal
	PerformedBy *string
	Location    *string
	Notes       *string
}

type ScheduleInput struct {
	Type               string
	Title              string
	Description        *string
	DueDate            time.Time
	RecurrenceType     string
	RecurrenceInterval *int
	ReminderEnabled    *bool
	ReminderDaysBefore *int
}

type UpdateScheduleInput struct {
	Type               *string
	Title              *string
	Description        *string
	DueDate            *time.Time
	RecurrenceType     *string
	RecurrenceInterval *int
	ReminderEnabled    *bool
	ReminderDaysBefore *int
}

type AddValueInput struct {
	Value  decimal.Decimal
	Date   *time.Time
	Source string
	Notes  *string
}
