package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/teleretail/salespoint/internal/contractcode/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByOperatorAndType(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, codeType domain.CodeType) (*domain.ContractCode, error) {
	var code domain.ContractCode
	err := db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Where("code_type = ?", codeType).
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

func (r *repo) ListByOperators(ctx context.Context, db *gorm.DB, operatorIDs []snowflake.ID) ([]domain.ContractCode, error) {
	if len(operatorIDs) == 0 {
		return nil, nil
	}
	var codes []domain.ContractCode
	err := db.WithContext(ctx).Where("operator_id IN ?", operatorIDs).Find(&codes).Error
	return codes, err
}

func (r *repo) FindInstallmentCode(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, amount int64) (*domain.InstallmentCode, error) {
	var code domain.InstallmentCode
	err := db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Where("amount = ?", amount).
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &code, nil
}

func (r *repo) ListInstallmentCodes(ctx context.Context, db *gorm.DB, operatorID snowflake.ID) ([]domain.InstallmentCode, error) {
	var codes []domain.InstallmentCode
	err := db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		Order("amount asc").
		Find(&codes).Error
	return codes, err
}
