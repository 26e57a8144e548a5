package migration

import (
	broadbanddomain "github.com/teleretail/salespoint/internal/broadband/domain"
	"github.com/teleretail/salespoint/internal/config"
	contractcodedomain "github.com/teleretail/salespoint/internal/contractcode/domain"
	operatordomain "github.com/teleretail/salespoint/internal/operator/domain"
	orderdomain "github.com/teleretail/salespoint/internal/order/domain"
	phonedomain "github.com/teleretail/salespoint/internal/phone/domain"
	"github.com/teleretail/salespoint/internal/seed"
	spotdealdomain "github.com/teleretail/salespoint/internal/spotdeal/domain"
	subscriptiondomain "github.com/teleretail/salespoint/internal/subscription/domain"
	subsidydomain "github.com/teleretail/salespoint/internal/subsidy/domain"
	tvpackagedomain "github.com/teleretail/salespoint/internal/tvpackage/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned SQL targets postgres; other dialects are for
			// local development and get the schema from the models.
			if err := conn.AutoMigrate(
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
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoCatalog(conn)
		}
		return nil
	}),
)
