package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
)

// Service resolves the set of subscription ids that must move together
// when one of them is repriced or matched in a cart. The result always
// contains the input subscription's own id; for an operator without a
// variant family, or a non-main line, it contains nothing else.
type Service interface {
	Resolve(ctx context.Context, sub subscriptiondomain.Subscription) ([]snowflake.ID, error)
}
