// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package blob

import (
	stdctx "context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hoangbui/komiko/pkg/uuidv7"
)

// FileStore is a [Store] backed by the local filesystem.
//
// # Layout
//
// Objects live under root/<namespace>/<uuid><ext>. The key exposed to
// callers is the root-relative path, so keys stay valid if the root moves.
type FileStore struct {
	root    string
	baseURL string
	secret  []byte
	logger  *slog.Logger
}

// NewFileStore creates a filesystem-backed object store.
//
// # Parameters
//   - root: Directory where objects are written. Created if missing.
//   - baseURL: Public URL prefix mapped to the root directory.
//   - secret: HMAC key used for signed URL generation.
//   - logger: Structured logger for storage events.
func NewFileStore(root string, baseURL string, secret string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("blob: failed to create root directory: %w", err)
	}

	return &FileStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  []byte(secret),
		logger:  logger,
	}, nil
}

// Put stores the reader contents under a fresh key in the namespace.
func (store *FileStore) Put(context stdctx.Context, namespace string, fileName string, reader io.Reader) (*Object, error) {

	// 1. Build an opaque key that preserves the original extension
	extension := strings.ToLower(filepath.Ext(fileName))
	key := path.Join(sanitizeNamespace(namespace), uuidv7.Must()+extension)

	// 2. Ensure the namespace directory exists
	fullPath := filepath.Join(store.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
		return nil, fmt.Errorf("blob: failed to create namespace directory: %w", err)
	}

	// 3. Write to a temp file first, then rename into place
	tempFile, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("blob: failed to create temp file: %w", err)
	}

	written, err := io.Copy(tempFile, reader)
	closeErr := tempFile.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(tempFile.Name())
		if err == nil {
			err = closeErr
		}
		return nil, fmt.Errorf("blob: failed to write object: %w", err)
	}

	if err := os.Rename(tempFile.Name(), fullPath); err != nil {
		_ = os.Remove(tempFile.Name())
		return nil, fmt.Errorf("blob: failed to finalize object: %w", err)
	}

	store.logger.DebugContext(context, "blob_stored",
		slog.String("key", key),
		slog.Int64("size", written),
	)

	return &Object{
		Key:  key,
		URL:  store.baseURL + "/" + key,
		Size: written,
	}, nil
}

// Delete removes the object with the given key.
func (store *FileStore) Delete(context stdctx.Context, key string) error {
	fullPath, err := store.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("blob: failed to delete object: %w", err)
	}

	store.logger.DebugContext(context, "blob_deleted", slog.String("key", key))
	return nil
}

// SignedURL returns a time-limited URL for the object.
//
// # Format
//
// The signature covers "<key>|<expiry-unix>" with HMAC-SHA256. Any static
// file gateway holding the same secret can verify it without a round trip.
func (store *FileStore) SignedURL(key string, ttl time.Duration) (string, error) {
	if _, err := store.resolve(key); err != nil {
		return "", err
	}

	expiresAt := time.Now().Add(ttl).Unix()
	signature := store.sign(key, expiresAt)

	return fmt.Sprintf("%s/%s?expires=%d&sig=%s", store.baseURL, key, expiresAt, signature), nil
}

// VerifySignedURL checks the signature and expiry extracted from a signed URL.
func (store *FileStore) VerifySignedURL(key string, expires string, signature string) bool {
	expiresAt, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}

	if time.Now().Unix() > expiresAt {
		return false
	}

	expected := store.sign(key, expiresAt)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// resolve maps a key to an absolute path, rejecting traversal attempts.
func (store *FileStore) resolve(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	if cleaned == "/" || strings.Contains(key, "..") {
		return "", ErrNotFound
	}
	return filepath.Join(store.root, filepath.FromSlash(cleaned)), nil
}

func (store *FileStore) sign(key string, expiresAt int64) string {
	mac := hmac.New(sha256.New, store.secret)
	fmt.Fprintf(mac, "%s|%d", key, expiresAt)
	return hex.EncodeToString(mac.Sum(nil))
}

// sanitizeNamespace restricts namespaces to a flat, safe directory name.
func sanitizeNamespace(namespace string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, strings.ToLower(namespace))

	if cleaned == "" {
		return "misc"
	}
	return cleaned
}
