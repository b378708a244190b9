// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package comic

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hoangbui/komiko/internal/platform/apperr"
)

// # Upload Reference Resolution

// Defaults substituted for single-file uploads with missing declared metadata.
const (
	defaultFileName = "upload"
	defaultFileType = "application/octet-stream"
)

// UploadInput carries the raw upload linkage fields from a creation payload.
//
// FileID is the storage key of an already-stored single file; PageOrder is
// an ordered list of already-stored image keys. At least one must be set.
type UploadInput struct {
	FileID    string   `json:"file_id"`
	FileURL   string   `json:"file_url"`
	FileName  string   `json:"file_name"`
	FileSize  int64    `json:"file_size"`
	FileType  string   `json:"file_type"`
	PageOrder []string `json:"page_order"`
}

// Linkage is the resolved internal file linkage attached to a comic.
type Linkage struct {
	Primary   FileReference
	PageOrder []string
}

/*
ResolveUploadReference normalizes the two accepted upload shapes into a
single internal file-linkage value.

Description: Single-file uploads trust the declared name/size/type as
provided, substituting defaults when absent rather than re-deriving them
from storage. Page-order-only uploads receive a synthetic archive key
built from the current time plus a random suffix; the key is a unique
placeholder and carries no retrievable content, because page-based comics
do not get a real bundled download artifact.

Parameters:
  - input: UploadInput (Raw linkage fields from the payload)
  - now: time.Time (Clock input for the synthetic key)

Returns:
  - *Linkage: The resolved primary reference and page order
  - error: apperr.MissingUploadReference when both shapes are absent
*/
func ResolveUploadReference(input UploadInput, now time.Time) (*Linkage, error) {

	// 1. Single-file mode takes precedence when both shapes are supplied
	if input.FileID != "" {
		reference := FileReference{
			Key:  input.FileID,
			URL:  input.FileURL,
			Name: input.FileName,
			Size: input.FileSize,
			Type: input.FileType,
		}

		// Declared metadata is trusted; only fill the gaps
		if reference.Name == "" {
			reference.Name = defaultFileName
		}
		if reference.Type == "" {
			reference.Type = defaultFileType
		}

		return &Linkage{Primary: reference}, nil
	}

	// 2. Multi-page mode synthesizes a placeholder archive reference
	if len(input.PageOrder) > 0 {
		key := syntheticArchiveKey(now)

		pages := make([]string, len(input.PageOrder))
		copy(pages, input.PageOrder)

		return &Linkage{
			Primary: FileReference{
				Key:  key,
				Name: key,
				Type: defaultFileType,
			},
			PageOrder: pages,
		}, nil
	}

	// 3. Neither shape present
	return nil, apperr.MissingUploadReference()
}

// syntheticArchiveKey builds a unique placeholder storage key from the
// current time and a random suffix.
func syntheticArchiveKey(now time.Time) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// Entropy failure is unrecoverable at the OS level.
		panic("comic: failed to read random suffix: " + err.Error())
	}

	return fmt.Sprintf("archives/%s-%s",
		now.UTC().Format("20060102T150405Z"),
		hex.EncodeToString(suffix),
	)
}
