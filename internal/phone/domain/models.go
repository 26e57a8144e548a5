package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Phone is one sellable hardware variant. Brand and model identify the
// device line, storage and color the variant; Price is the full catalog
// price in whole kronor.
type Phone struct {
	ID       snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Brand    string       `gorm:"index:idx_phones_line" json:"brand"`
	Model    string       `gorm:"index:idx_phones_line" json:"model"`
	Storage  string       `json:"storage"`
	Color    string       `json:"color"`
	Price    int64        `json:"price"`
	Code     string       `gorm:"uniqueIndex" json:"code"`
	ImageURL string       `json:"image_url,omitempty"`
	IsActive bool         `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Phone) TableName() string {
	return "phones"
}

// DisplayName renders the variant the way the sales floor prints it.
func (p Phone) DisplayName() string {
	name := p.Brand + " " + p.Model
	if p.Storage != "" {
		name += " " + p.Storage
	}
	if p.Color != "" {
		name += " " + p.Color
	}
	return name
}

var ErrPhoneNotFound = errors.New("phone_not_found")
