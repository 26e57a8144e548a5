package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// MobileDeal is one ranked subscription+phone combination. It is never
// persisted; every request recomputes (or reads the short-lived cache).
type MobileDeal struct {
	SubscriptionID          snowflake.ID `json:"subscription_id,string"`
	SubscriptionName        string       `json:"subscription_name"`
	OperatorID              snowflake.ID `json:"operator_id,string"`
	SubscriptionMonthlyCost int64        `json:"subscription_monthly_cost"`
	PhoneMonthlyCost        int64        `json:"phone_monthly_cost"`
	TotalMonthlyCost        int64        `json:"total_monthly_cost"`
	PhoneDiscount           int64        `json:"phone_discount"`
	IsSpotDeal              bool         `json:"is_spot_deal"`
	DataAllowanceGB         *int64       `json:"data_allowance_gb,omitempty"`
	Score                   float64      `json:"score"`
	Labels                  []string     `json:"labels"`
}

// PhoneSummary is the phone block of a deals response.
type PhoneSummary struct {
	ID       snowflake.ID `json:"id,string"`
	Name     string       `json:"name"`
	Price    int64        `json:"price"`
	ImageURL string       `json:"image_url,omitempty"`
}

// DealsResponse carries the labeled, deduplicated picks for one phone.
type DealsResponse struct {
	Phone PhoneSummary `json:"phone"`
	Deals []MobileDeal `json:"deals"`
}

var (
	ErrPhoneNotFound = errors.New("phone_not_found")
	// ErrCatalogEmpty means no subscription is flagged deal-eligible,
	// which is a catalog misconfiguration rather than a normal state.
	ErrCatalogEmpty = errors.New("deal_catalog_empty")
)

type Service interface {
	GetDeals(ctx context.Context, phoneID string) (DealsResponse, error)
}
