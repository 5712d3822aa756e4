//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/janhq/chat-assistant/internal/domain"
	"github.com/janhq/chat-assistant/internal/infrastructure"
	"github.com/janhq/chat-assistant/internal/interfaces"
	"github.com/janhq/chat-assistant/internal/interfaces/httpserver/routes"
)

func CreateApplication() (*Application, func(), error) {
	wire.Build(
		domain.ServiceProvider,
		infrastructure.InfrastructureProvider,
		routes.RouteProvider,
		interfaces.InterfacesProvider,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil, nil
}
