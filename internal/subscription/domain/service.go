package domain

import (
	"context"
	"errors"

	"github.com/teleretail/salespoint/pkg/db/pagination"
)

type ListRequest struct {
	OperatorID   string
	MainOnly     bool
	DealEligible bool
	pagination.Pagination
}

type ListResponse struct {
	pagination.PageInfo
	Subscriptions []Subscription `json:"subscriptions"`
}

// UpdatePricingRequest updates a plan's pricing fields. When the target is
// a main line the change also propagates to its silently linked variants
// and to its extra-user companion lines.
type UpdatePricingRequest struct {
	ID                     string `json:"-"`
	MonthlyPrice           *int64 `json:"monthly_price,omitempty"`
	MonthlyDiscount        *int64 `json:"monthly_discount,omitempty"`
	DiscountDurationMonths *int   `json:"discount_duration_months,omitempty"`
	CustomerDiscount       *int64 `json:"customer_discount,omitempty"`
}

// UpdatePricingResponse reports which rows were touched.
type UpdatePricingResponse struct {
	UpdatedIDs []string `json:"updated_ids"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, id string) (Subscription, error)
	UpdatePricing(ctx context.Context, req UpdatePricingRequest) (UpdatePricingResponse, error)
}

var (
	ErrInvalidID            = errors.New("invalid_subscription_id")
	ErrInvalidOperator      = errors.New("invalid_operator_id")
	ErrEmptyUpdate          = errors.New("empty_pricing_update")
	ErrNegativeAmount       = errors.New("negative_amount")
	ErrSubscriptionNotFound = errors.New("subscription_not_found")
)
