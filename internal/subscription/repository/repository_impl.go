package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/subscription/domain"
	"github.com/teleretail/salespoint/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]domain.Subscription, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var subs []domain.Subscription
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&subs).Error
	return subs, err
}

func (r *repo) List(ctx context.Context, db *gorm.DB, f domain.ListFilter) ([]*domain.Subscription, error) {
	stmt := db.WithContext(ctx).Model(&domain.Subscription{})
	if f.OperatorID != nil {
		stmt = stmt.Where("operator_id = ?", *f.OperatorID)
	}
	if f.MainOnly {
		stmt = stmt.Where("is_main_subscription = ?", true)
	}
	if f.DealEligible {
		stmt = stmt.Where("is_deal_eligible = ?", true)
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

	var subs []*domain.Subscription
	err := stmt.Order("id asc").Limit(size + 1).Find(&subs).Error
	return subs, err
}

func (r *repo) ListDealEligible(ctx context.Context, db *gorm.DB) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Where("is_deal_eligible = ?", true).
		Order("monthly_price asc").
		Find(&subs).Error
	return subs, err
}

func (r *repo) FindInstallmentVariant(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, monthlyPrice int64, youth bool) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Where("monthly_price = ?", monthlyPrice).
		Where("is_installment_only = ?", true).
		Where("is_youth_subscription = ?", youth).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) FindYouthVariantByPrice(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, monthlyPrice int64) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Where("monthly_price = ?", monthlyPrice).
		Where("is_youth_subscription = ?", true).
		Where("is_installment_only = ?", false).
		Where("is_featured = ?", true).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) FindYouthVariantByAllowance(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, allowanceGB *int64) (*domain.Subscription, error) {
	stmt := db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Where("is_youth_subscription = ?", true).
		Where("is_installment_only = ?", false).
		Where("is_featured = ?", true)
	if allowanceGB == nil {
		stmt = stmt.Where("data_allowance_gb IS NULL")
	} else {
		stmt = stmt.Where("data_allowance_gb = ?", *allowanceGB)
	}

	var sub domain.Subscription
	err := stmt.First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repo) FindExtraUserLines(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, tableDisplayName string) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Where("table_display_name = ?", tableDisplayName).
		Where("is_main_subscription = ?", false).
		Find(&subs).Error
	return subs, err
}

func (r *repo) UpdatePricing(ctx context.Context, db *gorm.DB, ids []snowflake.ID, changes domain.PricingChanges) error {
	if len(ids) == 0 {
		return nil
	}

	updates := map[string]any{}
	if changes.MonthlyPrice != nil {
		updates["monthly_price"] = *changes.MonthlyPrice
	}
	if changes.MonthlyDiscount != nil {
		updates["monthly_discount"] = *changes.MonthlyDiscount
	}
	if changes.DiscountDurationMonths != nil {
		updates["discount_duration_months"] = *changes.DiscountDurationMonths
	}
	if changes.CustomerDiscount != nil {
		updates["customer_discount"] = *changes.CustomerDiscount
	}
	if len(updates) == 0 {
		return nil
	}

	return db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("id IN ?", ids).
		Updates(updates).Error
}
