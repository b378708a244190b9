// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package comic

import (
	stdctx "context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/blob"
)

// # Test Fakes

// fakeComicRepository is an in-memory [ComicRepository].
type fakeComicRepository struct {
	comics map[string]*Comic
}

func newFakeComicRepository() *fakeComicRepository {
	return &fakeComicRepository{comics: make(map[string]*Comic)}
}

func (f *fakeComicRepository) List(_ stdctx.Context, filter Filter, limit, offset int) ([]*Comic, int, error) {
	var result []*Comic
	for _, c := range f.comics {
		if c.DeletedAt != nil {
			continue
		}
		if filter.OwnerID != "" && c.OwnerID != filter.OwnerID {
			continue
		}
		result = append(result, c)
	}
	return result, len(result), nil
}

func (f *fakeComicRepository) FindByID(_ stdctx.Context, id string) (*Comic, error) {
	c, ok := f.comics[id]
	if !ok || c.DeletedAt != nil {
		return nil, apperr.NotFound("comic")
	}
	return c, nil
}

func (f *fakeComicRepository) FindOwned(_ stdctx.Context, id, ownerID string) (*Comic, error) {
	c, ok := f.comics[id]
	if !ok || c.DeletedAt != nil || c.OwnerID != ownerID {
		return nil, apperr.NotFound("comic")
	}
	return c, nil
}

func (f *fakeComicRepository) Create(_ stdctx.Context, c *Comic) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	f.comics[c.ID] = c
	return nil
}

func (f *fakeComicRepository) Update(context stdctx.Context, id, ownerID string, patch Patch) error {
	c, err := f.FindOwned(context, id, ownerID)
	if err != nil {
		return err
	}

	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		c.Subtitle = *patch.Subtitle
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Genres != nil {
		c.Genres = patch.Genres
	}
	if patch.Tags != nil {
		c.Tags = patch.Tags
	}
	if patch.SeriesID != nil {
		c.SeriesID = patch.SeriesID
	}
	if patch.ThumbnailURL != nil {
		c.ThumbnailURL = *patch.ThumbnailURL
	}
	if patch.thumbnailKey != nil {
		c.ThumbnailKey = *patch.thumbnailKey
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.publishStatus != nil {
		c.PublishStatus = *patch.publishStatus
	}
	if patch.publishedAt != nil {
		c.PublishedAt = patch.publishedAt
	}
	if patch.Contributors != nil {
		c.Contributors = patch.Contributors
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeComicRepository) SetLifecycle(context stdctx.Context, id, ownerID string, change LifecycleChange) error {
	c, err := f.FindOwned(context, id, ownerID)
	if err != nil {
		return err
	}

	c.PublishStatus = change.PublishStatus
	if change.Status != nil {
		c.Status = *change.Status
	}
	if change.SetPublishedAt != nil {
		c.PublishedAt = change.SetPublishedAt
	} else if change.ClearPublishedAt {
		c.PublishedAt = nil
	}
	if change.SetScheduledAt != nil {
		c.ScheduledAt = change.SetScheduledAt
	} else if change.ClearScheduledAt {
		c.ScheduledAt = nil
	}

	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeComicRepository) SoftDelete(context stdctx.Context, id, ownerID string) error {
	c, err := f.FindOwned(context, id, ownerID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	c.DeletedAt = &now
	return nil
}

// fakeBlobStore is an in-memory [blob.Store] that records deletions.
type fakeBlobStore struct {
	putCount   int
	deleted    []string
	failDelete bool
}

func (f *fakeBlobStore) Put(_ stdctx.Context, namespace, fileName string, reader io.Reader) (*blob.Object, error) {
	size, _ := io.Copy(io.Discard, reader)
	f.putCount++
	key := fmt.Sprintf("%s/%d-%s", namespace, f.putCount, fileName)
	return &blob.Object{Key: key, URL: "https://blobs.komiko.app/" + key, Size: size}, nil
}

func (f *fakeBlobStore) Delete(_ stdctx.Context, key string) error {
	if f.failDelete {
		return fmt.Errorf("storage offline")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBlobStore) SignedURL(key string, _ time.Duration) (string, error) {
	return "https://blobs.komiko.app/" + key + "?sig=test", nil
}

type fakeNotifier struct {
	kinds []string
}

func (notifier *fakeNotifier) Send(_ stdctx.Context, kind string, _ string, _ map[string]any) bool {
	notifier.kinds = append(notifier.kinds, kind)
	return true
}

func newTestService() (*Service, *fakeComicRepository, *fakeBlobStore) {
	repo := newFakeComicRepository()
	blobs := &fakeBlobStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, blobs, &fakeNotifier{}, logger), repo, blobs
}

// # Creation

/*
TestCreateComic_AgreementRequired verifies the consent gate fires before
any other validation, regardless of upload linkage validity.
*/
func TestCreateComic_AgreementRequired(t *testing.T) {
	service, _, _ := newTestService()

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"agreement_false_valid_upload", CreateInput{Title: "Origin", Upload: UploadInput{FileID: "k-abc"}}},
		{"agreement_false_no_upload", CreateInput{Title: "Origin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateComic(stdctx.Background(), tt.input, "user-1", nil)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "AGREEMENT_REQUIRED", ae.Code)
		})
	}
}

/*
TestCreateComic_MissingUploadReference verifies creation fails when both
file_id and page_order are absent.
*/
func TestCreateComic_MissingUploadReference(t *testing.T) {
	service, _, _ := newTestService()

	input := CreateInput{Title: "Origin", UploadAgreement: true}
	_, err := service.CreateComic(stdctx.Background(), input, "user-1", nil)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "MISSING_UPLOAD_REFERENCE", ae.Code)
}

/*
TestCreateComic_SingleFile covers the single-file creation scenario:
initial draft state on both lifecycle fields and the declared key as the
primary reference.
*/
func TestCreateComic_SingleFile(t *testing.T) {
	service, _, _ := newTestService()

	input := CreateInput{
		Title:           "Origin",
		UploadAgreement: true,
		Upload:          UploadInput{FileID: "k-abc"},
	}

	created, err := service.CreateComic(stdctx.Background(), input, "user-1", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, created.Status)
	assert.Equal(t, PublishStatusDraft, created.PublishStatus)
	assert.Equal(t, "k-abc", created.File.Key)
	assert.Empty(t, created.PageOrder)
	assert.Equal(t, "user-1", created.OwnerID)
	assert.NotNil(t, created.AgreedAt)
}

/*
TestCreateComic_PageOrder covers the multi-page creation scenario with a
synthesized primary reference.
*/
func TestCreateComic_PageOrder(t *testing.T) {
	service, _, _ := newTestService()

	input := CreateInput{
		Title:           "Batch",
		UploadAgreement: true,
		Upload:          UploadInput{PageOrder: []string{"p1", "p2"}},
	}

	created, err := service.CreateComic(stdctx.Background(), input, "user-1", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"p1", "p2"}, created.PageOrder)
	assert.NotEmpty(t, created.File.Key)
	assert.NotEqual(t, "p1", created.File.Key)
	assert.NotEqual(t, "p2", created.File.Key)
}

/*
TestCreateComic_ThumbnailPrecedence verifies an uploaded thumbnail file
wins over an explicit thumbnail URL.
*/
func TestCreateComic_ThumbnailPrecedence(t *testing.T) {
	service, _, _ := newTestService()

	input := CreateInput{
		Title:           "Origin",
		UploadAgreement: true,
		Upload:          UploadInput{FileID: "k-abc"},
		ThumbnailURL:    "https://example.com/external.png",
	}
	thumbnail := &ThumbnailUpload{FileName: "cover.png", Reader: strings.NewReader("png-bytes")}

	created, err := service.CreateComic(stdctx.Background(), input, "user-1", thumbnail)
	require.NoError(t, err)

	assert.NotEmpty(t, created.ThumbnailKey)
	assert.NotEqual(t, "https://example.com/external.png", created.ThumbnailURL)

	// Without an uploaded file the explicit URL is used
	input.ThumbnailURL = "https://example.com/external.png"
	fallback, err := service.CreateComic(stdctx.Background(), input, "user-1", nil)
	require.NoError(t, err)

	assert.Empty(t, fallback.ThumbnailKey)
	assert.Equal(t, "https://example.com/external.png", fallback.ThumbnailURL)
}

// # Patching

func createDraft(t *testing.T, service *Service, ownerID string) *Comic {
	t.Helper()

	created, err := service.CreateComic(stdctx.Background(), CreateInput{
		Title:           "Origin",
		UploadAgreement: true,
		Upload:          UploadInput{FileID: "k-abc"},
	}, ownerID, nil)
	require.NoError(t, err)

	return created
}

/*
TestPatchComic_OwnershipCollapsed verifies that foreign-owned and missing
records are indistinguishable to the caller.
*/
func TestPatchComic_OwnershipCollapsed(t *testing.T) {
	service, _, _ := newTestService()
	created := createDraft(t, service, "user-1")

	title := "Stolen"
	tests := []struct {
		name    string
		comicID string
		ownerID string
	}{
		{"foreign_owner", created.ID, "user-2"},
		{"missing_record", "does-not-exist", "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.PatchComic(stdctx.Background(), tt.comicID, tt.ownerID, Patch{Title: &title}, nil)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "NOT_FOUND", ae.Code)
		})
	}
}

/*
TestPatchComic_ContributorFullReplace verifies patching contributors with
set A then set B leaves exactly set B.
*/
func TestPatchComic_ContributorFullReplace(t *testing.T) {
	service, _, _ := newTestService()
	created := createDraft(t, service, "user-1")

	setA := []ContributorGroup{{Role: "writer", Names: []string{"Anh", "Binh"}}}
	setB := []ContributorGroup{{Role: "artist", Names: []string{"Chi"}}}

	_, err := service.PatchComic(stdctx.Background(), created.ID, "user-1", Patch{Contributors: setA}, nil)
	require.NoError(t, err)

	updated, err := service.PatchComic(stdctx.Background(), created.ID, "user-1", Patch{Contributors: setB}, nil)
	require.NoError(t, err)

	require.Len(t, updated.Contributors, 1)
	assert.Equal(t, "artist", updated.Contributors[0].Role)
	assert.Equal(t, []string{"Chi"}, updated.Contributors[0].Names)
}

/*
TestPatchComic_PublishViaStatus verifies patching status to published
also stamps publish_status and published_at.
*/
func TestPatchComic_PublishViaStatus(t *testing.T) {
	service, _, _ := newTestService()
	created := createDraft(t, service, "user-1")

	published := StatusPublished
	updated, err := service.PatchComic(stdctx.Background(), created.ID, "user-1", Patch{Status: &published}, nil)
	require.NoError(t, err)

	assert.Equal(t, StatusPublished, updated.Status)
	assert.Equal(t, PublishStatusPublished, updated.PublishStatus)
	require.NotNil(t, updated.PublishedAt)
}

/*
TestPatchComic_ThumbnailReplacementCleansOldBlob verifies the previous
stored thumbnail is deleted best-effort when a new file is uploaded, and
that a failing delete never surfaces to the caller.
*/
func TestPatchComic_ThumbnailReplacementCleansOldBlob(t *testing.T) {
	service, _, blobs := newTestService()

	created, err := service.CreateComic(stdctx.Background(), CreateInput{
		Title:           "Origin",
		UploadAgreement: true,
		Upload:          UploadInput{FileID: "k-abc"},
	}, "user-1", &ThumbnailUpload{FileName: "v1.png", Reader: strings.NewReader("v1")})
	require.NoError(t, err)
	oldKey := created.ThumbnailKey

	updated, err := service.PatchComic(stdctx.Background(), created.ID, "user-1", Patch{},
		&ThumbnailUpload{FileName: "v2.png", Reader: strings.NewReader("v2")})
	require.NoError(t, err)

	assert.NotEqual(t, oldKey, updated.ThumbnailKey)
	assert.Contains(t, blobs.deleted, oldKey)

	// A failing delete is swallowed
	blobs.failDelete = true
	_, err = service.PatchComic(stdctx.Background(), created.ID, "user-1", Patch{},
		&ThumbnailUpload{FileName: "v3.png", Reader: strings.NewReader("v3")})
	require.NoError(t, err)
}

// # Lifecycle Transitions

/*
TestPublishComic_RestampsPublishedAt verifies publishing twice is
idempotent on publish_status but re-stamps published_at to the later time.
*/
func TestPublishComic_RestampsPublishedAt(t *testing.T) {
	service, repo, _ := newTestService()
	created := createDraft(t, service, "user-1")

	require.NoError(t, service.PublishComic(stdctx.Background(), created.ID, "user-1"))
	first := *repo.comics[created.ID].PublishedAt

	time.Sleep(5 * time.Millisecond)

	require.NoError(t, service.PublishComic(stdctx.Background(), created.ID, "user-1"))
	second := *repo.comics[created.ID].PublishedAt

	assert.Equal(t, PublishStatusPublished, repo.comics[created.ID].PublishStatus)
	assert.True(t, second.After(first))
}

/*
TestScheduleComic verifies scheduling stamps scheduled_at and leaves
published_at untouched.
*/
func TestScheduleComic(t *testing.T) {
	service, repo, _ := newTestService()
	created := createDraft(t, service, "user-1")

	require.NoError(t, service.PublishComic(stdctx.Background(), created.ID, "user-1"))
	publishedAt := *repo.comics[created.ID].PublishedAt

	when := time.Now().Add(48 * time.Hour).UTC()
	require.NoError(t, service.ScheduleComic(stdctx.Background(), created.ID, "user-1", when))

	stored := repo.comics[created.ID]
	assert.Equal(t, PublishStatusScheduled, stored.PublishStatus)
	require.NotNil(t, stored.ScheduledAt)
	assert.Equal(t, when, *stored.ScheduledAt)
	require.NotNil(t, stored.PublishedAt)
	assert.Equal(t, publishedAt, *stored.PublishedAt)
}

/*
TestDraftComic_ClearsTimestamps verifies the draft transition clears both
published_at and scheduled_at, and remains reachable from archived.
*/
func TestDraftComic_ClearsTimestamps(t *testing.T) {
	service, repo, _ := newTestService()
	created := createDraft(t, service, "user-1")

	require.NoError(t, service.PublishComic(stdctx.Background(), created.ID, "user-1"))
	require.NoError(t, service.ArchiveComic(stdctx.Background(), created.ID, "user-1"))
	assert.Equal(t, PublishStatusArchived, repo.comics[created.ID].PublishStatus)

	// Un-archiving back to draft is permitted
	require.NoError(t, service.DraftComic(stdctx.Background(), created.ID, "user-1"))

	stored := repo.comics[created.ID]
	assert.Equal(t, PublishStatusDraft, stored.PublishStatus)
	assert.Equal(t, StatusDraft, stored.Status)
	assert.Nil(t, stored.PublishedAt)
	assert.Nil(t, stored.ScheduledAt)
}

// # Draft Preview

/*
TestGetDraftPreview verifies the owner-only draft projection and the
unavailability error outside the draft state.
*/
func TestGetDraftPreview(t *testing.T) {
	service, _, _ := newTestService()
	created := createDraft(t, service, "user-1")

	preview, err := service.GetDraftPreview(stdctx.Background(), created.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, created.Title, preview.Title)

	// Foreign owners get the collapsed not-found
	_, err = service.GetDraftPreview(stdctx.Background(), created.ID, "user-2")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// Published comics have no draft preview
	require.NoError(t, service.PublishComic(stdctx.Background(), created.ID, "user-1"))
	_, err = service.GetDraftPreview(stdctx.Background(), created.ID, "user-1")
	require.Error(t, err)
	assert.Equal(t, "PREVIEW_UNAVAILABLE", apperr.As(err).Code)
}

// # Deletion

/*
TestDeleteComic verifies storage cleanup is advisory: a failing blob
delete never blocks the soft delete.
*/
func TestDeleteComic(t *testing.T) {
	service, repo, blobs := newTestService()

	created, err := service.CreateComic(stdctx.Background(), CreateInput{
		Title:           "Origin",
		UploadAgreement: true,
		Upload:          UploadInput{FileID: "k-abc"},
	}, "user-1", &ThumbnailUpload{FileName: "cover.png", Reader: strings.NewReader("png")})
	require.NoError(t, err)

	blobs.failDelete = true
	require.NoError(t, service.DeleteComic(stdctx.Background(), created.ID, "user-1"))

	assert.NotNil(t, repo.comics[created.ID].DeletedAt)

	// Deleted records are gone from lookups
	_, err = service.GetComic(stdctx.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
