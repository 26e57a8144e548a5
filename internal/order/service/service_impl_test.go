package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleretail/salespoint/internal/config"
	contractgendomain "github.com/teleretail/salespoint/internal/contractgen/domain"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	"github.com/teleretail/salespoint/internal/order/domain"
	"github.com/teleretail/salespoint/internal/providers/pdf"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Manual mock: generation rules are covered in the generator's own
// package, here it returns canned groups.
type mockGenerator struct {
	groups []contractgendomain.ContractCodeGroup
	err    error
}

func (m *mockGenerator) Generate(ctx context.Context, cart contractgendomain.Cart) ([]contractgendomain.ContractCodeGroup, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.groups, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}, &domain.OrderLine{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, gen contractgendomain.Service) domain.Service {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)

	return NewService(ServiceParam{
		DB:      db,
		Log:     zap.NewNop(),
		GenID:   node,
		Cfg:     config.Config{AppName: "salespoint"},
		Metrics: m,
		Codes:   gen,
		PDF:     pdf.New(),
	})
}

func sampleGroups(node *snowflake.Node) []contractgendomain.ContractCodeGroup {
	subID := node.Generate()
	phoneID := node.Generate()
	price := int64(9000)
	return []contractgendomain.ContractCodeGroup{{
		TargetKind: contractgendomain.TargetKindSubscription,
		TargetID:   subID,
		TargetName: "Main plan",
		PhoneID:    &phoneID,
		Entries: []contractgendomain.CodeEntry{
			{Kind: contractgendomain.EntryKindOwn, Code: "MAIN", Description: "Main plan"},
			{Kind: contractgendomain.EntryKindSubsidy, Code: "SPRING24", Description: "Spring campaign"},
			{Kind: contractgendomain.EntryKindPhone, Code: "PH-S24", Description: "Samsung Galaxy S24", Value: &price},
		},
	}}
}

func TestCreate_RequiresSeller(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), &mockGenerator{})

	_, err := svc.Create(context.Background(), domain.CreateRequest{SellerName: "  "})
	assert.ErrorIs(t, err, domain.ErrSellerMissing)
}

func TestCreate_GenerationFailureDoesNotPersist(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db, &mockGenerator{err: contractgendomain.ErrEmptyCart})

	_, err := svc.Create(context.Background(), domain.CreateRequest{SellerName: "Kim"})
	assert.ErrorIs(t, err, contractgendomain.ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreate_PersistsOrderLinesAndSubsidies(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(2)
	groups := sampleGroups(node)
	svc := newTestService(t, db, &mockGenerator{groups: groups})

	order, err := svc.Create(context.Background(), domain.CreateRequest{
		SellerName:  "Kim",
		CustomerRef: "C-1001",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRegistered, order.Status)
	assert.Equal(t, []string{"SPRING24"}, []string(order.SubsidyCodes))
	require.Len(t, order.Lines, 1)
	assert.Equal(t, groups[0].TargetID, order.Lines[0].TargetID)
	require.NotNil(t, order.Lines[0].PhonePrice)
	assert.Equal(t, int64(9000), *order.Lines[0].PhonePrice)

	fetched, err := svc.GetByID(context.Background(), order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	require.Len(t, fetched.Lines, 1)
	assert.NotEmpty(t, fetched.CodeGroups)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), &mockGenerator{})

	_, err := svc.GetByID(context.Background(), "123456789")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = svc.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestCodeSheetPDF(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(2)
	svc := newTestService(t, db, &mockGenerator{groups: sampleGroups(node)})

	order, err := svc.Create(context.Background(), domain.CreateRequest{SellerName: "Kim"})
	require.NoError(t, err)

	doc, err := svc.CodeSheetPDF(context.Background(), order.ID.String())
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
	assert.Equal(t, "%PDF", string(doc[:4]))
}
