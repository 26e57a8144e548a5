package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/subsidy/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListActiveForSubscriptions(ctx context.Context, db *gorm.DB, subscriptionIDs []snowflake.ID, today time.Time) ([]domain.ActiveSubsidy, error) {
	if len(subscriptionIDs) == 0 {
		return nil, nil
	}

	// Both window endpoints are inclusive at date granularity, so the
	// comparison brackets the whole calendar day.
	day := today.UTC().Truncate(24 * time.Hour)
	nextDay := day.Add(24 * time.Hour)

	var subsidies []domain.ActiveSubsidy
	err := db.WithContext(ctx).
		Table("subsidy_links").
		Select("subsidy_links.subscription_id, subsidy_links.phone_id, subsidy_codes.code, subsidy_codes.description").
		Joins("JOIN subsidy_codes ON subsidy_codes.id = subsidy_links.subsidy_code_id").
		Where("subsidy_links.subscription_id IN ?", subscriptionIDs).
		Where("subsidy_links.deleted_at IS NULL").
		Where("subsidy_codes.deleted_at IS NULL").
		Where("subsidy_codes.is_active = ?", true).
		Where("subsidy_codes.valid_from < ?", nextDay).
		Where("subsidy_codes.valid_to >= ?", day).
		Order("subsidy_links.id asc").
		Scan(&subsidies).Error
	return subsidies, err
}
