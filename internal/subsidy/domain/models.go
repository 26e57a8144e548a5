package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SubsidyCode is a time-bound campaign code. The validity window is
// compared against the current date with both endpoints inclusive.
type SubsidyCode struct {
	ID          snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Code        string       `gorm:"uniqueIndex" json:"code"`
	Description string       `json:"description"`
	IsActive    bool         `gorm:"default:true" json:"is_active"`
	ValidFrom   time.Time    `json:"valid_from"`
	ValidTo     time.Time    `json:"valid_to"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SubsidyCode) TableName() string {
	return "subsidy_codes"
}

// SubsidyLink binds a subsidy code to a subscription, and optionally to
// one phone. A nil phone means the subsidy applies to the subscription
// alone; a set phone restricts it to that subscription+phone pairing.
// Per subscription there is at most one phoneless link, and at most one
// link per phone.
type SubsidyLink struct {
	ID             snowflake.ID  `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	SubsidyCodeID  snowflake.ID  `gorm:"index" json:"subsidy_code_id,string"`
	SubscriptionID snowflake.ID  `gorm:"uniqueIndex:idx_subsidy_links_pair" json:"subscription_id,string"`
	PhoneID        *snowflake.ID `gorm:"uniqueIndex:idx_subsidy_links_pair" json:"phone_id,string,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (SubsidyLink) TableName() string {
	return "subsidy_links"
}

// ActiveSubsidy is a link joined with its code, filtered to the links
// currently in their validity window.
type ActiveSubsidy struct {
	SubscriptionID snowflake.ID
	PhoneID        *snowflake.ID
	Code           string
	Description    string
}

// ForPhone reports whether the subsidy is restricted to a phone pairing.
func (s ActiveSubsidy) ForPhone() bool {
	return s.PhoneID != nil
}
