package ports

import (
	"context"
	"io"
	"time"

	"github.com/dcic-turnos/turnos-web/internal/core/domain"
)

// Cache stores JSON-encodable values with a TTL.
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was found.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// PictureStore uploads profile pictures and returns their public URL.
type PictureStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// AuditRecorder accepts audit events without blocking the request.
type AuditRecorder interface {
	Record(event domain.AuditEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuditEvent) error
}
