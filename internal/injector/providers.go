package injector

import (
	"github.com/zeusync/foresight/internal/core/events/bus"
	"github.com/zeusync/foresight/internal/core/observability/log"
	"github.com/zeusync/foresight/internal/server"
)

// Stream is a contact bus together with the server streaming it.
type Stream struct {
	Bus    bus.EventBus
	Server *server.Server
}

func ProvideBus() bus.EventBus { return bus.New() }

func ProvideServer(cfg server.Config, eventBus bus.EventBus, logger *log.Logger) *server.Server {
	return server.NewServer(cfg, eventBus, logger)
}
