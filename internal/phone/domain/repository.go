package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Phone, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) ([]Phone, error)

	// FindSiblings lists the other active variants of the same device
	// line, excluding the given phone itself.
	FindSiblings(ctx context.Context, db *gorm.DB, phone Phone) ([]Phone, error)

	List(ctx context.Context, db *gorm.DB, f ListFilter) ([]*Phone, error)
}

// ListFilter narrows catalog listings.
type ListFilter struct {
	Brand      string
	ActiveOnly bool
	PageSize   int
	PageToken  string
}
