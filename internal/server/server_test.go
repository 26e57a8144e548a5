package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	broadbanddomain "github.com/teleretail/salespoint/internal/broadband/domain"
	"github.com/teleretail/salespoint/internal/cache"
	"github.com/teleretail/salespoint/internal/clock"
	"github.com/teleretail/salespoint/internal/config"
	contractcodedomain "github.com/teleretail/salespoint/internal/contractcode/domain"
	contractcoderepository "github.com/teleretail/salespoint/internal/contractcode/repository"
	contractgenservice "github.com/teleretail/salespoint/internal/contractgen/service"
	mobiledealservice "github.com/teleretail/salespoint/internal/mobiledeal/service"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	operatordomain "github.com/teleretail/salespoint/internal/operator/domain"
	operatorrepository "github.com/teleretail/salespoint/internal/operator/repository"
	orderdomain "github.com/teleretail/salespoint/internal/order/domain"
	orderservice "github.com/teleretail/salespoint/internal/order/service"
	phonedomain "github.com/teleretail/salespoint/internal/phone/domain"
	phonerepository "github.com/teleretail/salespoint/internal/phone/repository"
	"github.com/teleretail/salespoint/internal/providers/pdf"
	relatedservice "github.com/teleretail/salespoint/internal/related/service"
	"github.com/teleretail/salespoint/internal/seed"
	spotdealdomain "github.com/teleretail/salespoint/internal/spotdeal/domain"
	spotdealrepository "github.com/teleretail/salespoint/internal/spotdeal/repository"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	subscriptionrepository "github.com/teleretail/salespoint/internal/subscription/repository"
	subscriptionservice "github.com/teleretail/salespoint/internal/subscription/service"
	subsidydomain "github.com/teleretail/salespoint/internal/subsidy/domain"
	subsidyrepository "github.com/teleretail/salespoint/internal/subsidy/repository"
	tvpackagedomain "github.com/teleretail/salespoint/internal/tvpackage/domain"
	"github.com/teleretail/salespoint/pkg/repository"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	gin.SetMode(gin.TestMode)

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
		&orderdomain.Order{},
		&orderdomain.OrderLine{},
	))
	require.NoError(t, seed.EnsureDemoCatalog(db))

	log := zap.NewNop()
	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	holder := config.NewStaticOffersConfigHolder(config.DefaultOffersConfig())

	subRepo := subscriptionrepository.Provide()
	opRepo := operatorrepository.Provide()
	phoneRepo := phonerepository.Provide()
	codeRepo := contractcoderepository.Provide()
	subsidyRepo := subsidyrepository.Provide()
	spotRepo := spotdealrepository.Provide()

	relatedSvc := relatedservice.NewService(relatedservice.ServiceParam{
		DB: db, Log: log, Metrics: m,
		Subscriptions: subRepo, Operators: opRepo,
	})
	subscriptionSvc := subscriptionservice.NewService(subscriptionservice.ServiceParam{
		DB: db, Log: log, Repo: subRepo, RelatedSvc: relatedSvc,
	})
	codeSvc := contractgenservice.NewService(contractgenservice.ServiceParam{
		DB: db, Log: log, Clock: clock.NewSystemClock(), Metrics: m,
		Subscriptions: subRepo, Phones: phoneRepo, Codes: codeRepo, Subsidies: subsidyRepo,
		Broadband:  repository.ProvideStore[broadbanddomain.Broadband](db),
		TVPackages: repository.ProvideStore[tvpackagedomain.TVPackage](db),
	})
	dealSvc := mobiledealservice.NewService(mobiledealservice.ServiceParam{
		DB: db, Log: log, Metrics: m, Offers: holder,
		Cache:  cache.NewDealCache(cache.DealCacheParam{Offers: holder, Log: log}),
		Phones: phoneRepo, Subscriptions: subRepo, Operators: opRepo, SpotDeals: spotRepo,
	})
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	orderSvc := orderservice.NewService(orderservice.ServiceParam{
		DB: db, Log: log, GenID: node, Cfg: config.Config{AppName: "salespoint"},
		Metrics: m, Codes: codeSvc, PDF: pdf.New(),
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin: engine, Cfg: config.Config{}, DB: db, GenID: node,
		SubscriptionSvc: subscriptionSvc,
		DealSvc:         dealSvc,
		CodeSvc:         codeSvc,
		OrderSvc:        orderSvc,
		PhoneRepo:       phoneRepo,
	})

	return &fixture{db: db, engine: engine}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) phoneID(t *testing.T, code string) string {
	var phone phonedomain.Phone
	require.NoError(t, f.db.Where("code = ?", code).First(&phone).Error)
	return phone.ID.String()
}

func (f *fixture) subscriptionID(t *testing.T, code string) string {
	var sub subscriptiondomain.Subscription
	require.NoError(t, f.db.Where("code = ?", code).First(&sub).Error)
	return sub.ID.String()
}

func TestGetPhoneDeals(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/v1/phones/"+f.phoneID(t, "PH-S24-128-B")+"/deals", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Phone struct {
				Name string `json:"name"`
			} `json:"phone"`
			Deals []struct {
				Labels []string `json:"labels"`
			} `json:"deals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Data.Phone.Name, "Galaxy S24")
	assert.NotEmpty(t, resp.Data.Deals)
}

func TestGetPhoneDeals_UnknownPhone(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/v1/phones/123456789/deals", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewContractCodes(t *testing.T) {
	f := newFixture(t)
	subID := f.subscriptionID(t, "VM-M")

	w := f.do(t, http.MethodPost, "/v1/contract-codes/preview", map[string]any{
		"subscription_ids": []string{subID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Groups []struct {
				Entries []struct {
					Code string `json:"code"`
				} `json:"entries"`
			} `json:"groups"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Groups, 1)
	require.NotEmpty(t, resp.Data.Groups[0].Entries)
	assert.Equal(t, "VM-M", resp.Data.Groups[0].Entries[0].Code)
}

func TestPreviewContractCodes_EmptyCart(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/v1/contract-codes/preview", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)
	subID := f.subscriptionID(t, "VM-M")

	w := f.do(t, http.MethodPost, "/v1/orders", map[string]any{
		"seller_name": "Kim",
		"cart":        map[string]any{"subscription_ids": []string{subID}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)

	w = f.do(t, http.MethodGet, "/v1/orders/"+created.Data.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, fmt.Sprintf("/v1/orders/%s/code-sheet.pdf", created.Data.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String()[:4])
}

func TestCreateOrder_MissingSeller(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/v1/orders", map[string]any{
		"cart": map[string]any{"subscription_ids": []string{"1"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateSubscriptionPricing_BadID(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPatch, "/v1/subscriptions/garbage", map[string]any{
		"monthly_price": 499,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSubscriptions(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/v1/subscriptions?main_only=true&page_size=10", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Subscriptions []struct {
				IsMainSubscription bool `json:"is_main_subscription"`
			} `json:"subscriptions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Subscriptions)
	for _, sub := range resp.Data.Subscriptions {
		assert.True(t, sub.IsMainSubscription)
	}
}
