package services

import (
	"context"

	"github.com/rs/zerolog"
)

// logFor prefers the request scoped logger stored in ctx, keeping the component tag of
// the service logger. Outside a request it returns base unchanged.
func logFor(ctx context.Context, base zerolog.Logger, component string) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &base
	}
	scoped := l.With().Str("component", component).Logger()
	return &scoped
}
