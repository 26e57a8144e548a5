package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"github.com/teleretail/salespoint/internal/config"
	"github.com/teleretail/salespoint/internal/observability/metrics"
	orderservice "github.com/teleretail/salespoint/internal/order/service"
	"github.com/teleretail/salespoint/internal/providers/pdf"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func TestProbeCodeSheet(t *testing.T) {
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

	m, err := metrics.New(metrics.Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	svc := orderservice.NewService(orderservice.ServiceParam{
		DB: f.db, Log: zap.NewNop(), GenID: node, Cfg: config.Config{AppName: "salespoint"},
		Metrics: m, Codes: nil, PDF: pdf.New(),
	})
	_, err = svc.CodeSheetPDF(context.Background(), created.Data.ID)
	t.Logf("codesheet err: %v", err)
}
