package broadband

import (
	"github.com/teleretail/salespoint/internal/broadband/domain"
	"github.com/teleretail/salespoint/pkg/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("broadband",
	fx.Provide(repository.ProvideStore[domain.Broadband]),
)
