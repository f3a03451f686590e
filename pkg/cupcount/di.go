package cupcount

import (
	"context"

	"go.uber.org/dig"
	"go.uber.org/zap"
)

// DIParams holds dependencies needed to create a Cupcount instance via DI.
type DIParams struct {
	dig.In

	Logger  *zap.Logger
	Config  *Config         `optional:"true"`
	Context context.Context `optional:"true"`
}

// ProvideCupcount creates a Cupcount instance for dependency injection.
// Use this when integrating Cupcount into an app that uses uber-go/dig.
//
// Example:
//
//	container := dig.New()
//	container.Provide(cupcount.ProvideCupcount)
//	container.Invoke(func(cc *cupcount.Cupcount, mux *http.ServeMux) {
//	    mux.Handle("/", cc.Handler())
//	})
func ProvideCupcount(params DIParams) (*Cupcount, error) {
	cfg := params.Config
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Logger = params.Logger

	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}

	return New(ctx, cfg)
}

// RegisterWithContainer registers Cupcount with a dig container.
func RegisterWithContainer(container *dig.Container) error {
	return container.Provide(ProvideCupcount)
}
