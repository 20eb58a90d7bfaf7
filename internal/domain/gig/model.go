package gig

import (
	"time"

	banddomain "gear-tracker-go/internal/domain/band"
	instrumentdomain "gear-tracker-go/internal/domain/instrument"
	userdomain "gear-tracker-go/internal/domain/user"
)

type Gig struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	StartTime   time.Time  `gorm:"not null" json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Venue       *string    `json:"venue"`
	Address     *string    `json:"address"`
	City        *string    `json:"city"`
	State       *string    `json:"state"`
	Country     *string    `json:"country"`
	PostalCode  *string    `json:"postal_code"`
	Notes       *string    `gorm:"type:text" json:"notes"`
	BandID      uint       `gorm:"not null;index" json:"band_id"`
	CreatedBy   string     `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Band    *banddomain.Band `gorm:"foreignKey:BandID;constraint:OnDelete:CASCADE" json:"-"`
	Creator *userdomain.User `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
}

// GigGear marks an instrument as needed for a gig; the pair is unique
// and rows disappear with either parent.
type GigGear struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	GigID        uint      `gorm:"not null;uniqueIndex:idx_gig_gear_gig_instrument" json:"gig_id"`
	InstrumentID uint      `gorm:"not null;uniqueIndex:idx_gig_gear_gig_instrument" json:"instrument_id"`
	Notes        *string   `json:"notes"`
	IsPacked     bool      `gorm:"not null;default:false" json:"is_packed"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Gig        *Gig                         `gorm:"foreignKey:GigID;constraint:OnDelete:CASCADE" json:"-"`
	Instrument *instrumentdomain.Instrument `gorm:"foreignKey:InstrumentID;constraint:OnDelete:CASCADE" json:"-"`
}

func (GigGear) TableName() string { return "gig_gear" }

// GearItem is a gig gear row joined with a short instrument summary
// for packing lists.
type GearItem struct {
	GigGear
	InstrumentName string `json:"instrument_name"`
	InstrumentType string `json:"instrument_type"`
}

type CreateGigInput struct {
	BandID      uint
	CreatedBy   string
	Title       string
	Description *string
	StartTime   time.Time
	EndTime     *time.Time
	Venue       *string
	Address     *string
	City        *string
	State       *string
	Country     *string
	PostalCode  *string
	Notes       *string
}

type UpdateGigInput struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Venue       *string
	Address     *string
	City        *string
	State       *string
	Country     *string
	PostalCode  *string
	Notes       *string
}
