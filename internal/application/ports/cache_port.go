package ports

import (
	"context"
	"time"
)

// Cache puerto de salida para el cache de respuestas y locks distribuidos.
// La implementación concreta (Redis) vive en infraestructura; un tenant sin
// Redis configurado recibe una implementación no-op.
type Cache interface {
	// Get devuelve el valor crudo o ("", false) si no existe.
	Get(ctx context.Context, key string) (string, bool)
	// Set guarda el valor con TTL. Errores de cache se degradan a no-op.
	Set(ctx context.Context, key, value string, ttl time.Duration)
	// Delete invalida una clave.
	Delete(ctx context.Context, key string)
	// TryLock toma un lock best-effort con TTL; false si ya está tomado.
	TryLock(ctx context.Context, key string, ttl time.Duration) bool
	// Unlock libera el lock.
	Unlock(ctx context.Context, key string)
}
