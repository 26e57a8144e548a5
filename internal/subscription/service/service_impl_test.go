package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	subscriptionrepo "github.com/teleretail/salespoint/internal/subscription/repository"
	"github.com/teleretail/salespoint/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Manual mock: the resolver is covered by its own package tests, here
// it just returns a canned id set.
type mockResolver struct {
	ids []snowflake.ID
	err error
}

func (m *mockResolver) Resolve(ctx context.Context, sub subscriptiondomain.Subscription) ([]snowflake.ID, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.ids) == 0 {
		return []snowflake.ID{sub.ID}, nil
	}
	return m.ids, nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&subscriptiondomain.Subscription{}))
	return db
}

func newTestService(t *testing.T, db *gorm.DB, resolver *mockResolver) subscriptiondomain.Service {
	return NewService(ServiceParam{
		DB:         db,
		Log:        zap.NewNop(),
		Repo:       subscriptionrepo.Provide(),
		RelatedSvc: resolver,
	})
}

func seed(t *testing.T, db *gorm.DB, sub subscriptiondomain.Subscription) subscriptiondomain.Subscription {
	require.NoError(t, db.Create(&sub).Error)
	return sub
}

func TestUpdatePricing_EmptyUpdate(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), &mockResolver{})

	_, err := svc.UpdatePricing(context.Background(), subscriptiondomain.UpdatePricingRequest{ID: "1"})
	assert.ErrorIs(t, err, subscriptiondomain.ErrEmptyUpdate)
}

func TestUpdatePricing_NegativeAmount(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), &mockResolver{})

	bad := int64(-10)
	_, err := svc.UpdatePricing(context.Background(), subscriptiondomain.UpdatePricingRequest{
		ID:           "1",
		MonthlyPrice: &bad,
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrNegativeAmount)
}

func TestUpdatePricing_NotFound(t *testing.T) {
	svc := newTestService(t, setupTestDB(t), &mockResolver{})

	price := int64(399)
	_, err := svc.UpdatePricing(context.Background(), subscriptiondomain.UpdatePricingRequest{
		ID:           "1234567890",
		MonthlyPrice: &price,
	})
	assert.ErrorIs(t, err, subscriptiondomain.ErrSubscriptionNotFound)
}

func TestUpdatePricing_PropagatesPriceDelta(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)

	operatorID := node.Generate()
	main := seed(t, db, subscriptiondomain.Subscription{
		ID:                 node.Generate(),
		OperatorID:         operatorID,
		Code:               "MAIN",
		Name:               "Main plan",
		TableDisplayName:   "Main plan",
		MonthlyPrice:       499,
		IsMainSubscription: true,
	})
	youth := seed(t, db, subscriptiondomain.Subscription{
		ID:                  node.Generate(),
		OperatorID:          operatorID,
		Code:                "YOUTH",
		Name:                "Youth plan",
		MonthlyPrice:        449,
		IsYouthSubscription: true,
		IsFeatured:          true,
	})

	svc := newTestService(t, db, &mockResolver{ids: []snowflake.ID{main.ID, youth.ID}})

	newPrice := int64(549)
	resp, err := svc.UpdatePricing(context.Background(), subscriptiondomain.UpdatePricingRequest{
		ID:           main.ID.String(),
		MonthlyPrice: &newPrice,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{main.ID.String(), youth.ID.String()}, resp.UpdatedIDs)

	var got subscriptiondomain.Subscription
	require.NoError(t, db.First(&got, "id = ?", main.ID).Error)
	assert.Equal(t, int64(549), got.MonthlyPrice)

	// The youth twin moves by the same delta, keeping its offset.
	got = subscriptiondomain.Subscription{}
	require.NoError(t, db.First(&got, "id = ?", youth.ID).Error)
	assert.Equal(t, int64(499), got.MonthlyPrice)
}

func TestUpdatePricing_CollectsExtraUserLines(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)

	operatorID := node.Generate()
	main := seed(t, db, subscriptiondomain.Subscription{
		ID:                 node.Generate(),
		OperatorID:         operatorID,
		Code:               "MAIN",
		Name:               "Main plan",
		TableDisplayName:   "Family bundle",
		MonthlyPrice:       499,
		IsMainSubscription: true,
	})
	extra := seed(t, db, subscriptiondomain.Subscription{
		ID:               node.Generate(),
		OperatorID:       operatorID,
		Code:             "EXTRA",
		Name:             "Extra user",
		TableDisplayName: "Family bundle",
		MonthlyPrice:     149,
	})
	// A line under another display group stays untouched.
	other := seed(t, db, subscriptiondomain.Subscription{
		ID:               node.Generate(),
		OperatorID:       operatorID,
		Code:             "OTHER",
		Name:             "Other extra",
		TableDisplayName: "Solo plan",
		MonthlyPrice:     149,
	})

	svc := newTestService(t, db, &mockResolver{})

	discount := int64(100)
	resp, err := svc.UpdatePricing(context.Background(), subscriptiondomain.UpdatePricingRequest{
		ID:              main.ID.String(),
		MonthlyDiscount: &discount,
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{main.ID.String(), extra.ID.String()}, resp.UpdatedIDs)

	var got subscriptiondomain.Subscription
	require.NoError(t, db.First(&got, "id = ?", extra.ID).Error)
	assert.Equal(t, int64(100), got.MonthlyDiscount)

	got = subscriptiondomain.Subscription{}
	require.NoError(t, db.First(&got, "id = ?", other.ID).Error)
	assert.Equal(t, int64(0), got.MonthlyDiscount)
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)

	sub := seed(t, db, subscriptiondomain.Subscription{
		ID:           node.Generate(),
		OperatorID:   node.Generate(),
		Code:         "MAIN",
		Name:         "Main plan",
		MonthlyPrice: 399,
	})

	svc := newTestService(t, db, &mockResolver{})

	got, err := svc.GetByID(context.Background(), sub.ID.String())
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)

	_, err = svc.GetByID(context.Background(), "not-a-number")
	assert.ErrorIs(t, err, subscriptiondomain.ErrInvalidID)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	node, _ := snowflake.NewNode(1)

	operatorID := node.Generate()
	for i := 0; i < 3; i++ {
		seed(t, db, subscriptiondomain.Subscription{
			ID:                 node.Generate(),
			OperatorID:         operatorID,
			Code:               "SUB",
			Name:               "Plan",
			MonthlyPrice:       int64(300 + i),
			IsMainSubscription: true,
		})
	}

	svc := newTestService(t, db, &mockResolver{})

	resp, err := svc.List(context.Background(), subscriptiondomain.ListRequest{
		OperatorID: operatorID.String(),
		MainOnly:   true,
		Pagination: pagination.Pagination{PageSize: 2},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Subscriptions, 2)
	assert.True(t, resp.PageInfo.HasMore)
	assert.NotEmpty(t, resp.PageInfo.NextPageToken)
}
