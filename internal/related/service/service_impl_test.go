package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	operatordomain "github.com/teleretail/salespoint/internal/operator/domain"
	operatorrepo "github.com/teleretail/salespoint/internal/operator/repository"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	subscriptionrepo "github.com/teleretail/salespoint/internal/subscription/repository"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&operatordomain.Operator{},
		&subscriptiondomain.Subscription{},
	))
	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	svc := NewService(ServiceParam{
		DB:            db,
		Log:           zap.NewNop(),
		Metrics:       m,
		Subscriptions: subscriptionrepo.Provide(),
		Operators:     operatorrepo.Provide(),
	})
	return svc.(*Service)
}

func seedOperator(t *testing.T, db *gorm.DB, node *snowflake.Node, family operatordomain.Family) operatordomain.Operator {
	op := operatordomain.Operator{
		ID:            node.Generate(),
		Name:          "Op " + string(family),
		Slug:          "op-" + string(family),
		Family:        family,
		PricingFamily: operatordomain.PricingStandard,
	}
	require.NoError(t, db.Create(&op).Error)
	return op
}

func seedSubscription(t *testing.T, db *gorm.DB, sub subscriptiondomain.Subscription) subscriptiondomain.Subscription {
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

func mainLine(node *snowflake.Node, operatorID snowflake.ID, price int64) subscriptiondomain.Subscription {
	return subscriptiondomain.Subscription{
		ID:                 node.Generate(),
		OperatorID:         operatorID,
		Code:               "MAIN",
		Name:               "Main plan",
		TableDisplayName:   "Main plan",
		MonthlyPrice:       price,
		IsMainSubscription: true,
	}
}

func TestResolve_StandardOperator_OnlySelf(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	op := seedOperator(t, db, node, operatordomain.FamilyStandard)
	main := seedSubscription(t, db, mainLine(node, op.ID, 399))

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID}, ids)
}

func TestResolve_NonMainLine_OnlySelf(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallment)
	extra := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                 node.Generate(),
		OperatorID:         op.ID,
		Code:               "EXTRA",
		Name:               "Extra user",
		TableDisplayName:   "Main plan",
		MonthlyPrice:       99,
		IsMainSubscription: false,
	})
	// A twin at the same price must not be collected for a non-main line.
	seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                node.Generate(),
		OperatorID:        op.ID,
		Code:              "EXTRA-INST",
		Name:              "Extra installment",
		MonthlyPrice:      99,
		IsInstallmentOnly: true,
	})

	ids, err := svc.Resolve(context.Background(), extra)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{extra.ID}, ids)
}

func TestResolve_InstallmentFamily(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallment)
	main := seedSubscription(t, db, mainLine(node, op.ID, 449))
	twin := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                node.Generate(),
		OperatorID:        op.ID,
		Code:              "MAIN-INST",
		Name:              "Main installment",
		MonthlyPrice:      449,
		IsInstallmentOnly: true,
	})
	// Youth and wrong-price rows must not match.
	seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "YOUTH-INST",
		Name:                "Youth installment",
		MonthlyPrice:        449,
		IsInstallmentOnly:   true,
		IsYouthSubscription: true,
	})
	seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                node.Generate(),
		OperatorID:        op.ID,
		Code:              "OTHER-INST",
		Name:              "Other installment",
		MonthlyPrice:      349,
		IsInstallmentOnly: true,
	})

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID, twin.ID}, ids)
}

func TestResolve_InstallmentFamily_NoTwin(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallment)
	main := seedSubscription(t, db, mainLine(node, op.ID, 449))

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID}, ids)
}

func TestResolve_YouthFamily_FullChain(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallmentYouth)
	main := seedSubscription(t, db, mainLine(node, op.ID, 499))
	installment := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                node.Generate(),
		OperatorID:        op.ID,
		Code:              "MAIN-INST",
		Name:              "Main installment",
		MonthlyPrice:      499,
		IsInstallmentOnly: true,
	})
	youth := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "YOUTH",
		Name:                "Youth plan",
		MonthlyPrice:        449,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})
	youthInstallment := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "YOUTH-INST",
		Name:                "Youth installment",
		MonthlyPrice:        449,
		IsInstallmentOnly:   true,
		IsYouthSubscription: true,
	})

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID, installment.ID, youth.ID, youthInstallment.ID}, ids)
}

func TestResolve_YouthFamily_MissingYouthTwin(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallmentYouth)
	main := seedSubscription(t, db, mainLine(node, op.ID, 499))
	installment := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                node.Generate(),
		OperatorID:        op.ID,
		Code:              "MAIN-INST",
		Name:              "Main installment",
		MonthlyPrice:      499,
		IsInstallmentOnly: true,
	})
	// Youth line at the wrong offset stays invisible, and without the
	// youth twin its installment chain is never followed.
	seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "YOUTH",
		Name:                "Youth plan",
		MonthlyPrice:        429,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID, installment.ID}, ids)
}

func TestResolve_YouthFamily_YouthWithoutInstallment(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallmentYouth)
	main := seedSubscription(t, db, mainLine(node, op.ID, 499))
	youth := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "YOUTH",
		Name:                "Youth plan",
		MonthlyPrice:        449,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID, youth.ID}, ids)
}

func TestResolve_StudentFamily_MatchesAllowance(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	allowance := int64(40)
	otherAllowance := int64(20)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallmentStudent)
	main := mainLine(node, op.ID, 529)
	main.DataAllowanceGB = &allowance
	main = seedSubscription(t, db, main)

	student := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "STUDENT",
		Name:                "Student plan",
		MonthlyPrice:        429,
		DataAllowanceGB:     &allowance,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})
	seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "STUDENT-20",
		Name:                "Student plan 20",
		MonthlyPrice:        329,
		DataAllowanceGB:     &otherAllowance,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID, student.ID}, ids)
}

func TestResolve_StudentFamily_FollowsStudentInstallmentTwin(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	allowance := int64(60)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallmentStudent)
	main := mainLine(node, op.ID, 549)
	main.DataAllowanceGB = &allowance
	main = seedSubscription(t, db, main)

	student := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "STUDENT",
		Name:                "Student plan",
		MonthlyPrice:        449,
		DataAllowanceGB:     &allowance,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})
	studentInstallment := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "STUDENT-INST",
		Name:                "Student installment",
		MonthlyPrice:        449,
		IsInstallmentOnly:   true,
		IsYouthSubscription: true,
	})

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID, student.ID, studentInstallment.ID}, ids)
}

func TestResolve_StudentFamily_UnlimitedMatchesUnlimited(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	capped := int64(100)

	op := seedOperator(t, db, node, operatordomain.FamilyInstallmentStudent)
	main := seedSubscription(t, db, mainLine(node, op.ID, 599))

	// A capped student line never matches an unlimited main plan.
	seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "STUDENT-100",
		Name:                "Student plan 100",
		MonthlyPrice:        499,
		DataAllowanceGB:     &capped,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})
	student := seedSubscription(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          op.ID,
		Code:                "STUDENT-UNL",
		Name:                "Student plan unlimited",
		MonthlyPrice:        499,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})

	ids, err := svc.Resolve(context.Background(), main)
	require.NoError(t, err)
	assert.Equal(t, []snowflake.ID{main.ID, student.ID}, ids)
}

func TestResolve_UnknownOperator(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)
	svc := newTestService(t, db)

	main := mainLine(node, node.Generate(), 399)

	_, err := svc.Resolve(context.Background(), main)
	assert.ErrorIs(t, err, operatordomain.ErrOperatorNotFound)
}
