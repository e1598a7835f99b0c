package groupchoice

import (
	"github.com/smallbiznis/policyhub/internal/groupchoice/repository"
	"github.com/smallbiznis/policyhub/internal/groupchoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("groupchoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
