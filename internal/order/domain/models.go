package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	contractgendomain "github.com/teleretail/salespoint/internal/contractgen/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusRegistered Status = "registered"
	StatusCancelled  Status = "cancelled"
)

// Order is one registered sale. The generated code groups are stored
// alongside the order as they were at registration time, because the
// catalog may change afterwards and the printed sheet must not.
type Order struct {
	ID          snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	SellerName  string       `json:"seller_name"`
	CustomerRef string       `json:"customer_ref,omitempty"`
	Status      Status       `gorm:"type:text;not null;default:registered" json:"status"`

	// SubsidyCodes is the flat list of subsidy codes across all groups,
	// kept denormalized for campaign reporting queries.
	SubsidyCodes pq.StringArray `gorm:"type:text[]" json:"subsidy_codes,omitempty"`
	CodeGroups   datatypes.JSON `json:"code_groups"`

	Lines []OrderLine `gorm:"foreignKey:OrderID" json:"lines"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderLine is one cart line as sold: a subscription, broadband or TV
// target with the optional phone attached to it.
type OrderLine struct {
	ID         snowflake.ID  `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	OrderID    snowflake.ID  `gorm:"index" json:"order_id,string"`
	TargetKind string        `json:"target_kind"`
	TargetID   snowflake.ID  `json:"target_id,string"`
	TargetName string        `json:"target_name"`
	PhoneID    *snowflake.ID `json:"phone_id,string,omitempty"`
	PhonePrice *int64        `json:"phone_price,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

type CreateRequest struct {
	SellerName  string                 `json:"seller_name"`
	CustomerRef string                 `json:"customer_ref,omitempty"`
	Cart        contractgendomain.Cart `json:"cart"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	// CodeSheetPDF renders the order's stored code groups as a printable
	// document for the manual entry workflow.
	CodeSheetPDF(ctx context.Context, id string) ([]byte, error)
}

var (
	ErrInvalidID     = errors.New("invalid_order_id")
	ErrSellerMissing = errors.New("seller_name_required")
	ErrOrderNotFound = errors.New("order_not_found")
)
