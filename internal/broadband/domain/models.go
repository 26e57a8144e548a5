package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Broadband is a fixed-line product. A cart holding one collapses to a
// single contract group regardless of whatever else was picked.
type Broadband struct {
	ID               snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	OperatorID       snowflake.ID `gorm:"index" json:"operator_id,string"`
	Code             string       `gorm:"uniqueIndex" json:"code"`
	Name             string       `json:"name"`
	MonthlyPrice     int64        `json:"monthly_price"`
	DownloadSpeedMbs int          `json:"download_speed_mbs"`
	UploadSpeedMbs   int          `json:"upload_speed_mbs"`
	IsActive         bool         `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Broadband) TableName() string {
	return "broadband_products"
}
