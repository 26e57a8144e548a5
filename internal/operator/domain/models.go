// Package domain contains persistence models for telecom operators.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Family tags how an operator structures its silently linked subscription
// variants. The matching predicates per family are fixed operator contracts.
type Family string

const (
	// FamilyStandard operators carry no linked variants.
	FamilyStandard Family = "standard"
	// FamilyInstallment operators carry an installment-only twin per plan.
	FamilyInstallment Family = "installment"
	// FamilyInstallmentYouth operators additionally carry a youth twin
	// priced 50 below the main plan, plus that twin's installment variant.
	FamilyInstallmentYouth Family = "installment_youth"
	// FamilyInstallmentStudent operators carry a student twin matched by
	// identical data allowance instead of price.
	FamilyInstallmentStudent Family = "installment_student"
)

// PricingFamily selects the hardware installment rounding algorithm.
type PricingFamily string

const (
	// PricingStandard divides the net price into 24 parts rounded to the
	// nearest 10, never exceeding the net price over the binding period.
	PricingStandard PricingFamily = "standard"
	// PricingNinety prices hardware at round amounts ending in 90 before
	// dividing into 24 parts.
	PricingNinety PricingFamily = "ninety"
)

// Operator is a mobile network operator resold by the chain.
type Operator struct {
	ID            snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	Name          string        `gorm:"type:text;not null" json:"name"`
	Slug          string        `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Family        Family        `gorm:"type:text;not null;default:standard" json:"family"`
	PricingFamily PricingFamily `gorm:"type:text;not null;default:standard" json:"pricing_family"`
	CreatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Operator) TableName() string { return "operators" }
