//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/cache"
)

// InitializeHandlers builds every HTTP handler on top of the given repositories
func InitializeHandlers(
	repos Repositories,
	s Settings,
	c cache.Cache,
	publisher kafka.EventPublisher,
	reg prometheus.Registerer,
) *Handlers {
	wire.Build(HandlerSet)
	return nil
}
