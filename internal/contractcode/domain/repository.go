package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByOperatorAndType returns the operator's configured code of the
	// given type, or nil when none is configured.
	FindByOperatorAndType(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, codeType CodeType) (*ContractCode, error)

	// ListByOperators loads every configured code for a batch of
	// operators in one round trip.
	ListByOperators(ctx context.Context, db *gorm.DB, operatorIDs []snowflake.ID) ([]ContractCode, error)

	// FindInstallmentCode matches the exact remaining amount. There is no
	// nearest-amount fallback.
	FindInstallmentCode(ctx context.Context, db *gorm.DB, operatorID snowflake.ID, amount int64) (*InstallmentCode, error)

	ListInstallmentCodes(ctx context.Context, db *gorm.DB, operatorID snowflake.ID) ([]InstallmentCode, error)
}
