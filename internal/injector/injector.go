//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"github.com/zeusync/foresight/internal/core/observability/log"
	"github.com/zeusync/foresight/internal/server"
)

func InitializeStream(cfg server.Config) *Stream {
	wire.Build(log.Provide, ProvideBus, ProvideServer, wire.Struct(new(Stream), "*"))
	return nil
}
