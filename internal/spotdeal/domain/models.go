package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SpotDeal overrides the standard discount-to-customer for one
// subscription+phone pair with a campaign amount. At most one row per
// pair.
type SpotDeal struct {
	ID             snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	SubscriptionID snowflake.ID `gorm:"uniqueIndex:idx_spot_deals_pair" json:"subscription_id,string"`
	PhoneID        snowflake.ID `gorm:"uniqueIndex:idx_spot_deals_pair" json:"phone_id,string"`
	DiscountAmount int64        `json:"discount_amount"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SpotDeal) TableName() string {
	return "spot_deals"
}

type Repository interface {
	// ListByPhone loads every campaign override targeting the phone.
	ListByPhone(ctx context.Context, db *gorm.DB, phoneID snowflake.ID) ([]SpotDeal, error)
}
