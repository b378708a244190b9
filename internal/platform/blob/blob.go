// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package blob provides binary object storage for uploaded comic assets.

Comic archives, page images and thumbnails are stored under opaque keys.
The domain layer depends only on the [Store] interface so the backing
implementation can be swapped without touching business logic.

Core Responsibilities:

  - Persistence: Store uploaded bytes under a namespaced key.
  - Addressing: Produce stable public URLs for stored objects.
  - Cleanup: Delete objects that are no longer referenced.
*/
package blob

import (
	stdctx "context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when the requested object key does not exist.
var ErrNotFound = errors.New("blob: object not found")

// Object describes a stored binary asset.
type Object struct {
	// Key is the opaque storage key. Callers persist this alongside the
	// owning entity so the object can be deleted later.
	Key string `json:"key"`

	// URL is the public address of the object.
	URL string `json:"url"`

	// Size is the stored size in bytes.
	Size int64 `json:"size"`
}

// Store abstracts the binary object storage backend.
type Store interface {
	// Put stores the contents of reader under a new key in the given
	// namespace and returns the resulting object descriptor.
	Put(context stdctx.Context, namespace string, fileName string, reader io.Reader) (*Object, error)

	// Delete removes the object with the given key. Deleting a key that
	// does not exist returns [ErrNotFound].
	Delete(context stdctx.Context, key string) error

	// SignedURL returns a time-limited URL granting read access to the
	// object. Used for draft previews that must not be publicly cached.
	SignedURL(key string, ttl time.Duration) (string, error)
}
