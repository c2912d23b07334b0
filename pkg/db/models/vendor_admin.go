package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghbuys/marketplace-backend/pkg/enums"
)

// VendorAdmin links a user account to a vendor it can manage.
type VendorAdmin struct {
	ID        uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID  uuid.UUID             `gorm:"column:vendor_id;type:uuid;not null;index"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Role      enums.VendorAdminRole `gorm:"column:role;type:text;not null;default:'staff'"`
	GrantedBy *uuid.UUID            `gorm:"column:granted_by;type:uuid"`
	IsActive  bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
