package interfaces

import (
	"github.com/google/wire"

	"github.com/janhq/chat-assistant/internal/interfaces/httpserver"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)
