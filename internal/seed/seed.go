// Package seed loads a small demo catalog for fresh installs.
package seed

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
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

// EnsureDemoCatalog seeds operators, plans, phones and codes. It is a
// no-op when the catalog already has operators, so restarting with
// seeding enabled never duplicates rows.
func EnsureDemoCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&operatordomain.Operator{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return seedCatalog(tx, node)
	})
}

func seedCatalog(tx *gorm.DB, node *snowflake.Node) error {
	fjell := operator(node, "Fjellnett", operatordomain.FamilyStandard, operatordomain.PricingStandard)
	vika := operator(node, "Vika Mobil", operatordomain.FamilyInstallmentYouth, operatordomain.PricingStandard)
	bre := operator(node, "Bre Telecom", operatordomain.FamilyInstallmentStudent, operatordomain.PricingNinety)
	if err := tx.Create([]*operatordomain.Operator{fjell, vika, bre}).Error; err != nil {
		return err
	}

	gb := func(v int64) *int64 { return &v }

	// Vika carries the full silently linked family: main plan, its
	// installment twin, the featured youth twin at -50, and the youth
	// installment twin.
	vikaMain := plan(node, vika.ID, "VM-M", "Vika M", "Vika M", 399, func(s *subscriptiondomain.Subscription) {
		s.IsMainSubscription = true
		s.IsDealEligible = true
		s.IsFeatured = true
		s.DataAllowanceGB = gb(15)
		s.CustomerDiscount = 1500
		s.Commission = 120
		s.BindingPeriodMonths = 24
	})
	vikaInst := plan(node, vika.ID, "VM-M-I", "Vika M Installment", "Vika M", 399, func(s *subscriptiondomain.Subscription) {
		s.IsInstallmentOnly = true
		s.DataAllowanceGB = gb(15)
	})
	vikaYouth := plan(node, vika.ID, "VM-U", "Vika Ung", "Vika Ung", 349, func(s *subscriptiondomain.Subscription) {
		s.IsYouthSubscription = true
		s.IsFeatured = true
		s.DataAllowanceGB = gb(25)
	})
	vikaYouthInst := plan(node, vika.ID, "VM-U-I", "Vika Ung Installment", "Vika Ung", 349, func(s *subscriptiondomain.Subscription) {
		s.IsYouthSubscription = true
		s.IsInstallmentOnly = true
		s.DataAllowanceGB = gb(25)
	})

	// Bre matches its student twin by data allowance, not price.
	breMain := plan(node, bre.ID, "BT-20", "Bre 20GB", "Bre 20GB", 449, func(s *subscriptiondomain.Subscription) {
		s.IsMainSubscription = true
		s.IsDealEligible = true
		s.DataAllowanceGB = gb(20)
		s.CustomerDiscount = 2000
		s.Commission = 150
		s.BindingPeriodMonths = 24
		s.MonthlyDiscount = 50
		s.DiscountDurationMonths = 6
	})
	breInst := plan(node, bre.ID, "BT-20-I", "Bre 20GB Installment", "Bre 20GB", 449, func(s *subscriptiondomain.Subscription) {
		s.IsInstallmentOnly = true
		s.DataAllowanceGB = gb(20)
	})
	breStudent := plan(node, bre.ID, "BT-20-S", "Bre Student", "Bre Student", 379, func(s *subscriptiondomain.Subscription) {
		s.IsYouthSubscription = true
		s.IsFeatured = true
		s.DataAllowanceGB = gb(20)
	})
	breStudentInst := plan(node, bre.ID, "BT-20-S-I", "Bre Student Installment", "Bre Student", 379, func(s *subscriptiondomain.Subscription) {
		s.IsYouthSubscription = true
		s.IsInstallmentOnly = true
		s.DataAllowanceGB = gb(20)
	})

	fjellUnlimited := plan(node, fjell.ID, "FN-UL", "Fjellnett Ubegrenset", "Fjellnett Ubegrenset", 549, func(s *subscriptiondomain.Subscription) {
		s.IsMainSubscription = true
		s.IsDealEligible = true
		s.CustomerDiscount = 2500
		s.Commission = 180
		s.BindingPeriodMonths = 24
	})
	fjellExtra := plan(node, fjell.ID, "FN-UL-X", "Fjellnett Ubegrenset Ekstra", "Fjellnett Ubegrenset", 249, func(s *subscriptiondomain.Subscription) {
		s.DataAllowanceGB = gb(10)
	})
	fjellUnlimited.CanHaveExtraUser = true
	fjellUnlimited.LinkedExtraUserID = &fjellExtra.ID

	subs := []*subscriptiondomain.Subscription{
		vikaMain, vikaInst, vikaYouth, vikaYouthInst,
		breMain, breInst, breStudent, breStudentInst,
		fjellUnlimited, fjellExtra,
	}
	if err := tx.Create(subs).Error; err != nil {
		return err
	}

	phones := []*phonedomain.Phone{
		phone(node, "Samsung", "Galaxy S24", "128GB", "Black", 9990, "PH-S24-128-B"),
		phone(node, "Samsung", "Galaxy S24", "256GB", "Gray", 11490, "PH-S24-256-G"),
		phone(node, "Apple", "iPhone 16", "128GB", "Black", 10990, "PH-I16-128-B"),
		phone(node, "Motorola", "Edge 50", "256GB", "Blue", 5490, "PH-ME50-256-B"),
	}
	if err := tx.Create(phones).Error; err != nil {
		return err
	}

	codes := []*contractcodedomain.ContractCode{
		contractCode(node, vika.ID, contractcodedomain.CodeTypeEntryFee, "VM-ETAB", "Etablering", int64p(249)),
		contractCode(node, vika.ID, contractcodedomain.CodeTypeIncreasedFee, "VM-FORH", "Forhøyet månedsavgift", nil),
		contractCode(node, vika.ID, contractcodedomain.CodeTypeHardwareInstallment, "VM-HW", "Delbetaling maskinvare", nil),
		contractCode(node, vika.ID, contractcodedomain.CodeTypeSubscriptionDiscount, "VM-RAB", "Maskinvarerabatt", nil),
		contractCode(node, bre.ID, contractcodedomain.CodeTypeEntryFee, "BT-ETAB", "Etablering", int64p(199)),
		contractCode(node, bre.ID, contractcodedomain.CodeTypeIncreasedFee, "BT-FORH", "Forhøyet månedsavgift", nil),
		contractCode(node, bre.ID, contractcodedomain.CodeTypeSubscriptionDiscount, "BT-RAB", "Maskinvarerabatt", nil),
		contractCode(node, fjell.ID, contractcodedomain.CodeTypeEntryFee, "FN-ETAB", "Etablering", int64p(299)),
		contractCode(node, fjell.ID, contractcodedomain.CodeTypeSubscriptionDiscount, "FN-RAB", "Maskinvarerabatt", nil),
	}
	if err := tx.Create(codes).Error; err != nil {
		return err
	}

	installments := make([]*contractcodedomain.InstallmentCode, 0, 8)
	for _, amount := range []int64{3990, 5490, 6990, 8490, 9490} {
		installments = append(installments, &contractcodedomain.InstallmentCode{
			ID:          node.Generate(),
			OperatorID:  vika.ID,
			Amount:      amount,
			Code:        "VM-DB-" + strconv.FormatInt(amount, 10),
			Description: "Delbetaling",
		})
	}
	if err := tx.Create(installments).Error; err != nil {
		return err
	}

	now := time.Now().UTC()
	campaign := &subsidydomain.SubsidyCode{
		ID:          node.Generate(),
		Code:        "HOST24",
		Description: "Høstkampanje",
		IsActive:    true,
		ValidFrom:   now.AddDate(0, 0, -7),
		ValidTo:     now.AddDate(0, 1, 0),
	}
	if err := tx.Create(campaign).Error; err != nil {
		return err
	}
	link := &subsidydomain.SubsidyLink{
		ID:             node.Generate(),
		SubsidyCodeID:  campaign.ID,
		SubscriptionID: vikaMain.ID,
	}
	if err := tx.Create(link).Error; err != nil {
		return err
	}

	spot := &spotdealdomain.SpotDeal{
		ID:             node.Generate(),
		SubscriptionID: breMain.ID,
		PhoneID:        phones[3].ID,
		DiscountAmount: 3000,
	}
	if err := tx.Create(spot).Error; err != nil {
		return err
	}

	bb := &broadbanddomain.Broadband{
		ID:               node.Generate(),
		OperatorID:       fjell.ID,
		Code:             "FN-BB-500",
		Name:             "Fjellnett Fiber 500",
		MonthlyPrice:     649,
		DownloadSpeedMbs: 500,
		UploadSpeedMbs:   500,
		IsActive:         true,
	}
	tv := &tvpackagedomain.TVPackage{
		ID:           node.Generate(),
		OperatorID:   fjell.ID,
		Code:         "FN-TV-M",
		Name:         "Fjellnett TV Medium",
		MonthlyPrice: 399,
		ChannelCount: 60,
		IsActive:     true,
	}
	if err := tx.Create(bb).Error; err != nil {
		return err
	}
	return tx.Create(tv).Error
}

func operator(node *snowflake.Node, name string, family operatordomain.Family, pricing operatordomain.PricingFamily) *operatordomain.Operator {
	return &operatordomain.Operator{
		ID:            node.Generate(),
		Name:          name,
		Slug:          slug.Make(name),
		Family:        family,
		PricingFamily: pricing,
	}
}

func plan(node *snowflake.Node, operatorID snowflake.ID, code, name, tableName string, price int64, mutate func(*subscriptiondomain.Subscription)) *subscriptiondomain.Subscription {
	s := &subscriptiondomain.Subscription{
		ID:               node.Generate(),
		OperatorID:       operatorID,
		Code:             code,
		Name:             name,
		TableDisplayName: tableName,
		MonthlyPrice:     price,
	}
	if mutate != nil {
		mutate(s)
	}
	return s
}

func phone(node *snowflake.Node, brand, model, storage, color string, price int64, code string) *phonedomain.Phone {
	return &phonedomain.Phone{
		ID:       node.Generate(),
		Brand:    brand,
		Model:    model,
		Storage:  storage,
		Color:    color,
		Price:    price,
		Code:     code,
		IsActive: true,
	}
}

func contractCode(node *snowflake.Node, operatorID snowflake.ID, codeType contractcodedomain.CodeType, code, description string, value *int64) *contractcodedomain.ContractCode {
	return &contractcodedomain.ContractCode{
		ID:          node.Generate(),
		OperatorID:  operatorID,
		CodeType:    codeType,
		Code:        code,
		Description: description,
		Value:       value,
	}
}

func int64p(v int64) *int64 { return &v }
