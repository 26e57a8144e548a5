package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// ListActiveForSubscriptions joins links with their codes, keeping
	// only active codes whose validity window contains the given date.
	ListActiveForSubscriptions(ctx context.Context, db *gorm.DB, subscriptionIDs []snowflake.ID, today time.Time) ([]ActiveSubsidy, error)
}
