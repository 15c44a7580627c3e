package model

import "context"

// Storage persists opaque objects such as raw webhook bodies.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}
