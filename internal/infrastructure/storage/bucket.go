// Package storage holds uploaded files (invoice scans, logos) and exposes the
// listing the retention cleanup works from.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrInvalidKey is returned for keys that are empty or escape the bucket root.
var ErrInvalidKey = errors.New("invalid object key")

// Object is one file in a bucket listing.
type Object struct {
	Name      string
	Size      int64
	CreatedAt time.Time
}

// Bucket is the object store the service writes uploads to.
type Bucket interface {
	List(ctx context.Context) ([]Object, error)
	Delete(ctx context.Context, name string) error
	Put(ctx context.Context, key string, r io.Reader) (string, error)
}
