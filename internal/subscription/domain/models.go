// Package domain contains persistence models for the subscription catalog.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Subscription is one sellable plan SKU. Variant SKUs of the same plan
// (installment-only, youth/student, youth-installment) are separate rows
// linked only by the matching predicates in the resolver.
type Subscription struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id,string"`
	OperatorID snowflake.ID `gorm:"not null;index" json:"operator_id,string"`

	Code             string `gorm:"type:text;not null" json:"code"`
	Name             string `gorm:"type:text;not null" json:"name"`
	TableDisplayName string `gorm:"type:text;not null;index" json:"table_display_name"`

	MonthlyPrice           int64 `gorm:"not null" json:"monthly_price"`
	MonthlyDiscount        int64 `gorm:"not null;default:0" json:"monthly_discount"`
	DiscountDurationMonths int   `gorm:"not null;default:0" json:"discount_duration_months"`
	BindingPeriodMonths    int   `gorm:"not null;default:0" json:"binding_period_months"`
	Commission             int64 `gorm:"not null;default:0" json:"commission"`

	// DataAllowanceGB is nil for unlimited plans.
	DataAllowanceGB *int64 `json:"data_allowance_gb,omitempty"`
	BonusDataGB     int64  `gorm:"not null;default:0" json:"bonus_data_gb"`

	// CustomerDiscount is the standard hardware discount toward the
	// customer, overridden per phone by a spot deal when one exists.
	CustomerDiscount int64 `gorm:"not null;default:0" json:"customer_discount"`

	IsMainSubscription  bool `gorm:"not null;default:false" json:"is_main_subscription"`
	IsExistingRenewal   bool `gorm:"not null;default:false" json:"is_existing_renewal"`
	IsInstallmentOnly   bool `gorm:"not null;default:false" json:"is_installment_only"`
	IsYouthSubscription bool `gorm:"not null;default:false" json:"is_youth_subscription"`
	IsFeatured          bool `gorm:"not null;default:false" json:"is_featured"`
	IsDealEligible      bool `gorm:"not null;default:false" json:"is_deal_eligible"`
	CanHaveExtraUser    bool `gorm:"not null;default:false" json:"can_have_extra_user"`

	LinkedExtraUserID *snowflake.ID `gorm:"index" json:"linked_extra_user_id,string,omitempty"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Subscription) TableName() string { return "subscriptions" }

// EffectiveMonthlyCost is the monthly price after the running discount.
func (s Subscription) EffectiveMonthlyCost() int64 {
	cost := s.MonthlyPrice - s.MonthlyDiscount
	if cost < 0 {
		return 0
	}
	return cost
}

// TotalDataGB returns base plus bonus allowance; nil means unlimited.
func (s Subscription) TotalDataGB() *int64 {
	if s.DataAllowanceGB == nil {
		return nil
	}
	total := *s.DataAllowanceGB + s.BonusDataGB
	return &total
}
