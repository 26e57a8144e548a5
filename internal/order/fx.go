package order

import (
	"github.com/teleretail/salespoint/internal/order/service"
	"github.com/teleretail/salespoint/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("order",
	fx.Provide(
		pdf.New,
		service.NewService,
	),
)
