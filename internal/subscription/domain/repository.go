package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository exposes the catalog lookups the offer engine depends on.
// Predicate lookups return nil (not an error) when no row matches: an
// absent variant is a valid "no such sibling" outcome.
type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Subscription, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Subscription, error)
	List(ctx context.Context, db *gorm.DB, f ListFilter) ([]*Subscription, error)
	ListDealEligible(ctx context.Context, db *gorm.DB) ([]Subscription, error)

	// FindInstallmentVariant matches the installment-only twin: same
	// operator, identical monthly price, installment-only, with the youth
	// axis fixed by the caller.
	FindInstallmentVariant(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, monthlyPrice int64, youth bool) (*Subscription, error)

	// FindYouthVariantByPrice matches the featured youth twin at an exact
	// monthly price (the main plan's price minus 50 for youth operators).
	FindYouthVariantByPrice(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, monthlyPrice int64) (*Subscription, error)

	// FindYouthVariantByAllowance matches the featured student twin by
	// identical data allowance; a nil allowance matches unlimited plans.
	FindYouthVariantByAllowance(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, allowanceGB *int64) (*Subscription, error)

	// FindExtraUserLines collects every non-main line sharing the operator
	// and table display name with an updated main line.
	FindExtraUserLines(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, tableDisplayName string) ([]Subscription, error)

	UpdatePricing(ctx context.Context, db *gorm.DB, ids []snowflake.ID, changes PricingChanges) error
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	OperatorID   *snowflake.ID
	MainOnly     bool
	DealEligible bool
	PageSize     int
	PageToken    string
}

// PricingChanges carries the propagated fields of a pricing update.
type PricingChanges struct {
	MonthlyPrice           *int64
	MonthlyDiscount        *int64
	DiscountDurationMonths *int
	CustomerDiscount       *int64
}
