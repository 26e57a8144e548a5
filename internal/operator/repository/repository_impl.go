package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/operator/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Operator, error) {
	var operator domain.Operator
	err := db.WithContext(ctx).First(&operator, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &operator, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Operator, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var operators []domain.Operator
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&operators).Error
	return operators, err
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Operator, error) {
	var operators []domain.Operator
	err := db.WithContext(ctx).Order("name asc").Find(&operators).Error
	return operators, err
}
