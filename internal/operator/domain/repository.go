package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrOperatorNotFound = errors.New("operator_not_found")

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Operator, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Operator, error)
	List(ctx context.Context, db *gorm.DB) ([]Operator, error)
}
