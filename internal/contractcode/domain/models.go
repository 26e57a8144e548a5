package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// CodeType enumerates the special-purpose codes an operator configures.
type CodeType string

const (
	CodeTypeEntryFee             CodeType = "entry_fee"
	CodeTypeIncreasedFee         CodeType = "increased_fee"
	CodeTypeHardwareInstallment  CodeType = "hardware_installment"
	CodeTypeSubscriptionDiscount CodeType = "subscription_discount"
)

// ContractCode is an operator-scoped special-purpose code. At most one
// active row exists per operator and type.
type ContractCode struct {
	ID          snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	OperatorID  snowflake.ID `gorm:"uniqueIndex:idx_contract_codes_operator_type" json:"operator_id,string"`
	CodeType    CodeType     `gorm:"uniqueIndex:idx_contract_codes_operator_type" json:"code_type"`
	Code        string       `json:"code"`
	Description string       `json:"description"`
	Value       *int64       `json:"value,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ContractCode) TableName() string {
	return "contract_codes"
}

// InstallmentCode maps an exact remaining hardware amount to the code
// the external sales system expects for installment billing.
type InstallmentCode struct {
	ID          snowflake.ID `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	OperatorID  snowflake.ID `gorm:"uniqueIndex:idx_installment_codes_operator_amount" json:"operator_id,string"`
	Amount      int64        `gorm:"uniqueIndex:idx_installment_codes_operator_amount" json:"amount"`
	Code        string       `json:"code"`
	Description string       `json:"description"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (InstallmentCode) TableName() string {
	return "installment_codes"
}
