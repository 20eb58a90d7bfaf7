package band

import (
	"time"

	userdomain "gear-tracker-go/internal/domain/user"
)

const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

type Band struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	PhotoURL    *string   `gorm:"type:text" json:"photo_url"`
	OwnerID     string    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Owner *userdomain.User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

// BandMember joins a band and a user; the pair is unique.
type BandMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BandID    uint      `gorm:"not null;uniqueIndex:idx_band_members_band_user" json:"band_id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_band_members_band_user" json:"user_id"`
	Role      string    `gorm:"type:varchar(16);not null;default:member" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Band *Band            `gorm:"foreignKey:BandID;constraint:OnDelete:CASCADE" json:"-"`
	User *userdomain.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func ValidMemberRole(role string) bool {
	switch role {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleMember:
		return true
	}
	return false
}

type CreateBandInput struct {
	OwnerID     string
	Name        string
	Description *string
	PhotoURL    *string
}

type UpdateBandInput struct {
	Name        *string
	Description *string
	PhotoURL    *string
}
