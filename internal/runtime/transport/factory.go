// Package transport connects the runtime config to the transport registry.
package transport

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/drblury/adbridge/internal/runtime/config"
	"github.com/drblury/adbridge/transport"

	_ "github.com/drblury/adbridge/transport/transports"
)

// Transport is a built backend together with what it guarantees.
type Transport struct {
	transport.Transport
	Capabilities transport.Capabilities
}

// Factory builds the transport a Service runs on.
type Factory interface {
	Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (Transport, error)
}

// DefaultFactory builds from the default registry, where every bundled
// backend is registered.
func DefaultFactory() Factory {
	return registryFactory{registry: transport.DefaultRegistry}
}

// RegistryFactory builds from r.
func RegistryFactory(r *transport.Registry) Factory {
	return registryFactory{registry: r}
}

type registryFactory struct {
	registry *transport.Registry
}

func (f registryFactory) Build(ctx context.Context, conf *config.Config, logger watermill.LoggerAdapter) (Transport, error) {
	if conf == nil {
		return Transport{}, fmt.Errorf("config is required")
	}
	t, err := f.registry.Build(ctx, conf, logger)
	if err != nil {
		return Transport{}, err
	}
	return Transport{Transport: t, Capabilities: f.registry.Capabilities(conf.GetPubSubSystem())}, nil
}
