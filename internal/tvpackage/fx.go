package tvpackage

import (
	"github.com/teleretail/salespoint/internal/tvpackage/domain"
	"github.com/teleretail/salespoint/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("tvpackage",
	fx.Provide(repository.ProvideStore[domain.TVPackage]),
)
