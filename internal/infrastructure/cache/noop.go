package cache

import (
	"context"
	"time"

	"github.com/bizio/bizio-api/internal/application/ports"
)

var _ ports.Cache = (*NoopCache)(nil)

// NoopCache implementación nula para entornos sin Redis configurado.
// Get nunca acierta y TryLock siempre concede (el overlap lo cubre el
// mutex local del scheduler).
type NoopCache struct{}

// NewNoopCache construye el cache nulo.
func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) Get(context.Context, string) (string, bool)       { return "", false }
func (NoopCache) Set(context.Context, string, string, time.Duration) {}
func (NoopCache) Delete(context.Context, string)                   {}
func (NoopCache) TryLock(context.Context, string, time.Duration) bool { return true }
func (NoopCache) Unlock(context.Context, string)                   {}
