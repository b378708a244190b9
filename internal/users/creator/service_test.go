// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package creator_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/users/creator"
)

// # Test Fakes

var (
	errFlagStoreDown    = errors.New("flag store down")
	errProfileStoreDown = errors.New("profile store down")
)

type flagState struct {
	enabled    bool
	disabledAt *time.Time
}

type fakeFlagRepository struct {
	flags     map[string]*flagState
	failClear bool
}

func newFakeFlagRepository() *fakeFlagRepository {
	return &fakeFlagRepository{flags: map[string]*flagState{}}
}

func (repository *fakeFlagRepository) SetCreatorHub(_ context.Context, userID string, enabled bool, disabledAt *time.Time) error {
	repository.flags[userID] = &flagState{enabled: enabled, disabledAt: disabledAt}
	return nil
}

func (repository *fakeFlagRepository) ListExpired(_ context.Context, cutoff time.Time) ([]string, error) {
	var userIDs []string
	for userID, state := range repository.flags {
		if !state.enabled && state.disabledAt != nil && state.disabledAt.Before(cutoff) {
			userIDs = append(userIDs, userID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

func (repository *fakeFlagRepository) ClearDisabledAt(_ context.Context, userID string) error {
	if repository.failClear {
		return errFlagStoreDown
	}
	if state, ok := repository.flags[userID]; ok {
		state.disabledAt = nil
	}
	return nil
}

type fakeProfileRepository struct {
	profiles   map[string]*creator.CreatorProfile
	failDelete map[string]bool
}

func newFakeProfileRepository() *fakeProfileRepository {
	return &fakeProfileRepository{
		profiles:   map[string]*creator.CreatorProfile{},
		failDelete: map[string]bool{},
	}
}

func (repository *fakeProfileRepository) Find(_ context.Context, userID string) (*creator.CreatorProfile, error) {
	profile, ok := repository.profiles[userID]
	if !ok {
		return nil, apperr.NotFound("Creator profile")
	}
	clone := *profile
	return &clone, nil
}

func (repository *fakeProfileRepository) Upsert(_ context.Context, profile *creator.CreatorProfile) error {
	clone := *profile
	repository.profiles[profile.UserID] = &clone
	return nil
}

func (repository *fakeProfileRepository) Delete(_ context.Context, userID string) (bool, error) {
	if repository.failDelete[userID] {
		return false, errProfileStoreDown
	}
	_, ok := repository.profiles[userID]
	delete(repository.profiles, userID)
	return ok, nil
}

type sentNotification struct {
	kind        string
	recipientID string
	payload     map[string]any
}

type fakeNotifier struct {
	sent []sentNotification
}

func (notifier *fakeNotifier) Send(_ context.Context, kind string, recipientID string, payload map[string]any) bool {
	notifier.sent = append(notifier.sent, sentNotification{kind: kind, recipientID: recipientID, payload: payload})
	return true
}

func newTestService() (*creator.Service, *fakeFlagRepository, *fakeProfileRepository, *fakeNotifier) {
	flags := newFakeFlagRepository()
	profiles := newFakeProfileRepository()
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return creator.NewService(flags, profiles, notifier, logger), flags, profiles, notifier
}

// seedDisabled plants a disabled creator with an existing profile.
func seedDisabled(flags *fakeFlagRepository, profiles *fakeProfileRepository, userID string, disabledAt time.Time) {
	flags.flags[userID] = &flagState{enabled: false, disabledAt: &disabledAt}
	profiles.profiles[userID] = &creator.CreatorProfile{UserID: userID, DisplayName: "Inkwell"}
}

// # Toggle

/*
TestSetCreatorHub_DisableStampsAndNotifies verifies disabling stamps the
account and emits a notification carrying the purge schedule.
*/
func TestSetCreatorHub_DisableStampsAndNotifies(t *testing.T) {
	service, flags, profiles, notifier := newTestService()
	profiles.profiles["u1"] = &creator.CreatorProfile{UserID: "u1", DisplayName: "Inkwell"}

	require.NoError(t, service.SetCreatorHub(context.Background(), "u1", false))

	state := flags.flags["u1"]
	require.NotNil(t, state)
	assert.False(t, state.enabled)
	require.NotNil(t, state.disabledAt)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "creatorhub.disabled", notifier.sent[0].kind)
	assert.Equal(t, "u1", notifier.sent[0].recipientID)
	assert.Equal(t, 6, notifier.sent[0].payload["retention_months"])
	assert.Equal(t, state.disabledAt.AddDate(0, 6, 0), notifier.sent[0].payload["purge_after"])

	// Nothing is destroyed at disable time.
	assert.Contains(t, profiles.profiles, "u1")
}

/*
TestSetCreatorHub_ReEnableBeforeSweep verifies a member who returns
before the sweep keeps their profile and loses the disable stamp.
*/
func TestSetCreatorHub_ReEnableBeforeSweep(t *testing.T) {
	service, flags, profiles, notifier := newTestService()
	seedDisabled(flags, profiles, "u1", time.Now().AddDate(0, -5, 0))

	require.NoError(t, service.SetCreatorHub(context.Background(), "u1", true))

	state := flags.flags["u1"]
	assert.True(t, state.enabled)
	assert.Nil(t, state.disabledAt)
	assert.Contains(t, profiles.profiles, "u1")

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "creatorhub.enabled", notifier.sent[0].kind)

	// A later sweep must not touch the restored account.
	result, err := service.CleanupExpiredCreatorData(context.Background(), time.Now().AddDate(0, 12, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, result.ScannedCount)
	assert.Contains(t, profiles.profiles, "u1")
}

// # Retention Sweep

/*
TestCleanupExpiredCreatorData_PurgesAfterWindow verifies a profile
disabled seven months ago is destroyed and the stamp cleared.
*/
func TestCleanupExpiredCreatorData_PurgesAfterWindow(t *testing.T) {
	service, flags, profiles, _ := newTestService()
	now := time.Now().UTC()
	seedDisabled(flags, profiles, "u1", now.AddDate(0, -7, 0))

	result, err := service.CleanupExpiredCreatorData(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.ScannedCount)
	assert.Equal(t, 1, result.DeletedCount)
	assert.NotContains(t, profiles.profiles, "u1")
	assert.Nil(t, flags.flags["u1"].disabledAt)
}

/*
TestCleanupExpiredCreatorData_WithinWindowNoop verifies a profile
disabled three months ago survives with its stamp intact.
*/
func TestCleanupExpiredCreatorData_WithinWindowNoop(t *testing.T) {
	service, flags, profiles, _ := newTestService()
	now := time.Now().UTC()
	disabledAt := now.AddDate(0, -3, 0)
	seedDisabled(flags, profiles, "u1", disabledAt)

	result, err := service.CleanupExpiredCreatorData(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 0, result.ScannedCount)
	assert.Equal(t, 0, result.DeletedCount)
	assert.Contains(t, profiles.profiles, "u1")
	require.NotNil(t, flags.flags["u1"].disabledAt)
	assert.True(t, flags.flags["u1"].disabledAt.Equal(disabledAt))
}

/*
TestCleanupExpiredCreatorData_NoProfileStillClearsStamp verifies an
expired account without a profile is scanned once and never rescanned.
*/
func TestCleanupExpiredCreatorData_NoProfileStillClearsStamp(t *testing.T) {
	service, flags, _, _ := newTestService()
	now := time.Now().UTC()
	disabledAt := now.AddDate(0, -8, 0)
	flags.flags["u1"] = &flagState{enabled: false, disabledAt: &disabledAt}

	result, err := service.CleanupExpiredCreatorData(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, result.ScannedCount)
	assert.Equal(t, 0, result.DeletedCount)
	assert.Nil(t, flags.flags["u1"].disabledAt)
}

/*
TestCleanupExpiredCreatorData_AbortKeepsPartialProgress verifies the
sweep stops at the first storage error, reports what it finished, and
hands the error back exactly as the store raised it.
*/
func TestCleanupExpiredCreatorData_AbortKeepsPartialProgress(t *testing.T) {
	service, flags, profiles, _ := newTestService()
	now := time.Now().UTC()
	seedDisabled(flags, profiles, "u1", now.AddDate(0, -7, 0))
	seedDisabled(flags, profiles, "u2", now.AddDate(0, -7, 0))
	profiles.failDelete["u2"] = true

	result, err := service.CleanupExpiredCreatorData(context.Background(), now)

	require.Error(t, err)
	assert.Equal(t, errProfileStoreDown, err)
	assert.Equal(t, 2, result.ScannedCount)
	assert.Equal(t, 1, result.DeletedCount)

	// u1 was fully processed before the abort, u2 was not.
	assert.NotContains(t, profiles.profiles, "u1")
	assert.Nil(t, flags.flags["u1"].disabledAt)
	assert.Contains(t, profiles.profiles, "u2")
	assert.NotNil(t, flags.flags["u2"].disabledAt)
}

/*
TestCleanupExpiredCreatorData_ClearFailureAborts verifies a failing
stamp clear also aborts the sweep with the store's error.
*/
func TestCleanupExpiredCreatorData_ClearFailureAborts(t *testing.T) {
	service, flags, profiles, _ := newTestService()
	now := time.Now().UTC()
	seedDisabled(flags, profiles, "u1", now.AddDate(0, -7, 0))
	flags.failClear = true

	result, err := service.CleanupExpiredCreatorData(context.Background(), now)

	require.Error(t, err)
	assert.Equal(t, errFlagStoreDown, err)
	assert.Equal(t, 1, result.ScannedCount)
	assert.Equal(t, 1, result.DeletedCount)
	assert.NotNil(t, flags.flags["u1"].disabledAt)
}

// # Profile

/*
TestUpdateProfile_CreatesOnFirstWrite verifies the first patch creates
the profile and later patches only touch the provided fields.
*/
func TestUpdateProfile_CreatesOnFirstWrite(t *testing.T) {
	service, _, profiles, _ := newTestService()
	ctx := context.Background()

	name := "Inkwell"
	profile, err := service.UpdateProfile(ctx, "u1", creator.ProfilePatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Inkwell", profile.DisplayName)

	bio := "Weekly one-shots."
	profile, err = service.UpdateProfile(ctx, "u1", creator.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Inkwell", profile.DisplayName)
	assert.Equal(t, "Weekly one-shots.", profile.Bio)

	assert.Contains(t, profiles.profiles, "u1")
}

/*
TestUpdateProfile_Validation verifies display name and bio limits.
*/
func TestUpdateProfile_Validation(t *testing.T) {
	service, _, _, _ := newTestService()

	empty := ""
	_, err := service.UpdateProfile(context.Background(), "u1", creator.ProfilePatch{DisplayName: &empty})

	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
}
