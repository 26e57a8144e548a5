package phone

import (
	"github.com/teleretail/salespoint/internal/phone/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("phone",
	fx.Provide(repository.Provide),
)
