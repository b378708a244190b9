// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package comic_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangbui/komiko/internal/core/comic"
	"github.com/hoangbui/komiko/internal/platform/apperr"
)

/*
TestResolveUploadReference_MissingBoth verifies that payloads lacking both
upload shapes are rejected.
*/
func TestResolveUploadReference_MissingBoth(t *testing.T) {
	_, err := comic.ResolveUploadReference(comic.UploadInput{}, time.Now())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "MISSING_UPLOAD_REFERENCE", ae.Code)
	assert.Equal(t, 400, ae.HTTPStatus)
}

/*
TestResolveUploadReference_SingleFile covers the single-file shape,
including the default substitution for absent declared metadata.
*/
func TestResolveUploadReference_SingleFile(t *testing.T) {
	tests := []struct {
		name     string
		input    comic.UploadInput
		wantName string
		wantType string
	}{
		{
			name: "declared_metadata_trusted",
			input: comic.UploadInput{
				FileID:   "k-abc",
				FileURL:  "https://cdn.komiko.app/k-abc",
				FileName: "origin.cbz",
				FileSize: 2048,
				FileType: "application/zip",
			},
			wantName: "origin.cbz",
			wantType: "application/zip",
		},
		{
			name:     "defaults_substituted",
			input:    comic.UploadInput{FileID: "k-abc"},
			wantName: "upload",
			wantType: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			linkage, err := comic.ResolveUploadReference(tt.input, time.Now())
			require.NoError(t, err)

			assert.Equal(t, "k-abc", linkage.Primary.Key)
			assert.Equal(t, tt.wantName, linkage.Primary.Name)
			assert.Equal(t, tt.wantType, linkage.Primary.Type)
			assert.Empty(t, linkage.PageOrder)
		})
	}
}

/*
TestResolveUploadReference_PageOrder verifies the synthetic archive key
generated for multi-page uploads.
*/
func TestResolveUploadReference_PageOrder(t *testing.T) {
	input := comic.UploadInput{PageOrder: []string{"p1", "p2"}}

	linkage, err := comic.ResolveUploadReference(input, time.Now())
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2"}, linkage.PageOrder)

	key := linkage.Primary.Key
	assert.NotEmpty(t, key)
	assert.True(t, strings.HasPrefix(key, "archives/"))
	assert.NotEqual(t, "p1", key)
	assert.NotEqual(t, "p2", key)

	// The random suffix keeps keys unique even within the same second
	second, err := comic.ResolveUploadReference(input, time.Now())
	require.NoError(t, err)
	assert.NotEqual(t, key, second.Primary.Key)
}

/*
TestResolveUploadReference_SingleFilePrecedence verifies that file_id wins
when both shapes are supplied.
*/
func TestResolveUploadReference_SingleFilePrecedence(t *testing.T) {
	input := comic.UploadInput{
		FileID:    "k-primary",
		PageOrder: []string{"p1"},
	}

	linkage, err := comic.ResolveUploadReference(input, time.Now())
	require.NoError(t, err)

	assert.Equal(t, "k-primary", linkage.Primary.Key)
	assert.Empty(t, linkage.PageOrder)
}
