package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Cart is a seller's current selection. Broadband and TV short-circuit:
// a broadband id collapses the whole cart to one group, then a TV id,
// and only a cart with neither processes the subscription list.
type Cart struct {
	SubscriptionIDs []string         `json:"subscription_ids"`
	BroadbandID     *string          `json:"broadband_id,omitempty"`
	TVPackageID     *string          `json:"tv_package_id,omitempty"`
	PhoneSelections []PhoneSelection `json:"phone_selections,omitempty"`
}

// PhoneSelection pairs a phone with the subscription it is sold under.
// DiscountedPrice is what the customer actually pays for the hardware.
type PhoneSelection struct {
	SubscriptionID  string `json:"subscription_id"`
	PhoneID         string `json:"phone_id"`
	DiscountedPrice int64  `json:"discounted_price"`
	IsInstallment   bool   `json:"is_installment"`
}

// CodeEntry is one line to be copied into the external sales system.
// Ordering within a group matters to the people doing the copying.
type CodeEntry struct {
	Kind        string `json:"kind"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Value       *int64 `json:"value,omitempty"`
}

// Entry kinds, for consumers that need to tell subsidy codes apart
// from the rest (reporting, the printed sheet).
const (
	EntryKindOwn          = "own"
	EntryKindSubsidy      = "subsidy"
	EntryKindEntryFee     = "entry_fee"
	EntryKindPhone        = "phone"
	EntryKindInstallment  = "installment"
	EntryKindIncreasedFee = "increased_fee"
	EntryKindHardwareFlag = "hardware_flag"
	EntryKindDiscount     = "discount"
)

// ContractCodeGroup is the ordered code list for one cart line.
// PhoneID is set when a phone selection was claimed for the group.
type ContractCodeGroup struct {
	TargetKind string        `json:"target_kind"`
	TargetID   snowflake.ID  `json:"target_id,string"`
	TargetName string        `json:"target_name"`
	PhoneID    *snowflake.ID `json:"phone_id,string,omitempty"`
	Entries    []CodeEntry   `json:"entries"`
}

const (
	TargetKindSubscription = "subscription"
	TargetKindBroadband    = "broadband"
	TargetKindTVPackage    = "tv_package"
)

// Service generates code groups for a cart. Generation is all-or-nothing:
// any missing entity or required code fails the whole call.
type Service interface {
	Generate(ctx context.Context, cart Cart) ([]ContractCodeGroup, error)
}
