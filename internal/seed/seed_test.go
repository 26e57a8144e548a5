package seed

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	broadbanddomain "github.com/teleretail/salespoint/internal/broadband/domain"
	contractcodedomain "github.com/teleretail/salespoint/internal/contractcode/domain"
	operatordomain "github.com/teleretail/salespoint/internal/operator/domain"
	phonedomain "github.com/teleretail/salespoint/internal/phone/domain"
	spotdealdomain "github.com/teleretail/salespoint/internal/spotdeal/domain"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	subsidydomain "github.com/teleretail/salespoint/internal/subsidy/domain"
	tvpackagedomain "github.com/teleretail/salespoint/internal/tvpackage/domain"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&operatordomain.Operator{},
		&subscriptiondomain.Subscription{},
		&phonedomain.Phone{},
		&contractcodedomain.ContractCode{},
		&contractcodedomain.InstallmentCode{},
		&subsidydomain.SubsidyCode{},
		&subsidydomain.SubsidyLink{},
		&spotdealdomain.SpotDeal{},
		&broadbanddomain.Broadband{},
		&tvpackagedomain.TVPackage{},
	))
	return db
}

func TestEnsureDemoCatalog_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, EnsureDemoCatalog(db))
	require.NoError(t, EnsureDemoCatalog(db))

	var operators int64
	require.NoError(t, db.Model(&operatordomain.Operator{}).Count(&operators).Error)
	assert.Equal(t, int64(3), operators)

	var subs int64
	require.NoError(t, db.Model(&subscriptiondomain.Subscription{}).Count(&subs).Error)
	assert.Equal(t, int64(10), subs)
}

func TestEnsureDemoCatalog_VariantChainsResolve(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, EnsureDemoCatalog(db))

	// The youth twin sits 50 below its main plan under the same operator.
	var main subscriptiondomain.Subscription
	require.NoError(t, db.Where("code = ?", "VM-M").First(&main).Error)

	var youth subscriptiondomain.Subscription
	err := db.Where(
		"operator_id = ? AND monthly_price = ? AND is_youth_subscription = ? AND is_featured = ? AND is_installment_only = ?",
		main.OperatorID, main.MonthlyPrice-50, true, true, false,
	).First(&youth).Error
	require.NoError(t, err)
	assert.Equal(t, "VM-U", youth.Code)

	var youthInstallment subscriptiondomain.Subscription
	err = db.Where(
		"operator_id = ? AND monthly_price = ? AND is_youth_subscription = ? AND is_installment_only = ?",
		main.OperatorID, youth.MonthlyPrice, true, true,
	).First(&youthInstallment).Error
	require.NoError(t, err)
	assert.Equal(t, "VM-U-I", youthInstallment.Code)
}
