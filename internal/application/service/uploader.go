package service

import (
	"context"
)

// Uploader is the storage backend chosen at startup. Put must not overwrite
// an existing object; Delete is best effort.
type Uploader interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	Name() string
}

// KeyResolver is implemented by backends whose public URLs do not follow the
// public-object path shape, so delete-by-URL can still find the key.
type KeyResolver interface {
	KeyFromURL(rawURL string) (string, bool)
}
