package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/spotdeal/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListByPhone(ctx context.Context, db *gorm.DB, phoneID snowflake.ID) ([]domain.SpotDeal, error) {
	var deals []domain.SpotDeal
	err := db.WithContext(ctx).Where("phone_id = ?", phoneID).Find(&deals).Error
	return deals, err
}
