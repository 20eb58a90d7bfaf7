package user

import "time"

const (
	RoleUser        = "user"
	RoleAdmin       = "admin"
	RoleBandManager = "band_manager"
)

// User mirrors the identity provider's principal. The primary key is
// the provider-issued uid; rows are created on first verified
// authentication and never deleted by this service.
type User struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Email       string    `gorm:"not null;uniqueIndex" json:"email"`
	DisplayName *string   `gorm:"type:text" json:"display_name"`
	PhotoURL    *string   `gorm:"type:text" json:"photo_url"`
	Role        string    `gorm:"type:varchar(16);not null;default:user" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleBandManager:
		return true
	}
	return false
}
