package specgroup

import (
	"github.com/smallbiznis/policyhub/internal/specgroup/repository"
	"github.com/smallbiznis/policyhub/internal/specgroup/service"
	"go.uber.org/fx"
)

var Module = fx.Module("specgroup.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
