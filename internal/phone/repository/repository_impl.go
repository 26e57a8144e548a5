package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/phone/domain"
	"github.com/teleretail/salespoint/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Phone, error) {
	var phone domain.Phone
	err := db.WithContext(ctx).First(&phone, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &phone, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Phone, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var phones []domain.Phone
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&phones).Error
	return phones, err
}

func (r *repo) FindSiblings(ctx context.Context, db *gorm.DB, phone domain.Phone) ([]domain.Phone, error) {
	var phones []domain.Phone
	err := db.WithContext(ctx).
		Where("brand = ?", phone.Brand).
		Where("model = ?", phone.Model).
		Where("id <> ?", phone.ID).
		Where("is_active = ?", true).
		Order("price asc").
		Find(&phones).Error
	return phones, err
}

func (r *repo) List(ctx context.Context, db *gorm.DB, f domain.ListFilter) ([]*domain.Phone, error) {
	stmt := db.WithContext(ctx).Model(&domain.Phone{})
	if brand := strings.TrimSpace(f.Brand); brand != "" {
		stmt = stmt.Where("brand = ?", brand)
	}
	if f.ActiveOnly {
		stmt = stmt.Where("is_active = ?", true)
	}
	if token := strings.TrimSpace(f.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, err
		}
		if cursor.ID != "" {
			stmt = stmt.Where("id > ?", cursor.ID)
		}
	}
	size := f.PageSize
	if size <= 0 {
		size = 25
	}

	var phones []*domain.Phone
	err := stmt.Order("id asc").Limit(size + 1).Find(&phones).Error
	return phones, err
}
