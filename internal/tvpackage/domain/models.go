package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// TVPackage is a television add-on product. In a mixed cart it ranks
// below broadband when collapsing to a single contract group.
type TVPackage struct {
	ID           snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	OperatorID   snowflake.ID `gorm:"index" json:"operator_id,string"`
	Code         string       `gorm:"uniqueIndex" json:"code"`
	Name         string       `json:"name"`
	MonthlyPrice int64        `json:"monthly_price"`
	ChannelCount int          `json:"channel_count"`
	IsActive     bool         `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (TVPackage) TableName() string {
	return "tv_packages"
}
