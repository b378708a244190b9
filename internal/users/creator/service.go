// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package creator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hoangbui/komiko/internal/platform/apperr"
	"github.com/hoangbui/komiko/internal/platform/constants"
	"github.com/hoangbui/komiko/internal/platform/notify"
	"github.com/hoangbui/komiko/internal/platform/validate"
)

// Service implements the CreatorHub lifecycle use cases.
type Service struct {
	flagRepository    FlagRepository
	profileRepository ProfileRepository
	notifier          notify.Notifier
	logger            *slog.Logger
}

// NewService constructs a new creator [Service].
func NewService(flagRepo FlagRepository, profileRepo ProfileRepository, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		flagRepository:    flagRepo,
		profileRepository: profileRepo,
		notifier:          notifier,
		logger:            logger,
	}
}

// # CreatorHub Toggle

/*
SetCreatorHub enables or disables CreatorHub mode for an account.

Description: Enabling clears any pending disable stamp, so a member who
returns before the retention sweep keeps their profile untouched.
Disabling stamps the account with the current time, which starts the
retention clock. Nothing is destroyed here. Notifications are
best-effort and never fail the toggle.

Parameters:
  - context: context.Context
  - userID: string
  - enable: bool

Returns:
  - error: Storage errors
*/
func (service *Service) SetCreatorHub(context context.Context, userID string, enable bool) error {
	if enable {
		if err := service.flagRepository.SetCreatorHub(context, userID, true, nil); err != nil {
			return fmt.Errorf("creator_service_enable_failed: %w", err)
		}

		service.logger.Info("creatorhub_enabled", slog.String("user_id", userID))
		service.notifier.Send(context, notify.KindCreatorHubEnabled, userID, nil)
		return nil
	}

	disabledAt := time.Now().UTC()
	if err := service.flagRepository.SetCreatorHub(context, userID, false, &disabledAt); err != nil {
		return fmt.Errorf("creator_service_disable_failed: %w", err)
	}

	purgeAfter := disabledAt.AddDate(0, constants.CreatorRetentionMonths, 0)

	service.logger.Info("creatorhub_disabled",
		slog.String("user_id", userID),
		slog.Time("purge_after", purgeAfter),
	)
	service.notifier.Send(context, notify.KindCreatorHubDisabled, userID, map[string]any{
		"retention_months": constants.CreatorRetentionMonths,
		"purge_after":      purgeAfter,
	})

	return nil
}

// # Retention Sweep

/*
CleanupExpiredCreatorData purges profiles disabled beyond the window.

Description: Scans accounts whose disable stamp is older than the
retention window relative to now. For each match the creator profile is
destroyed when present, and the disable stamp is cleared either way so
the account is never scanned again. The loop aborts on the first
storage error and returns the partial counts, so an interrupted sweep
resumes cleanly on the next run.

Parameters:
  - context: context.Context
  - now: time.Time

Returns:
  - *SweepResult: Scanned and deleted counts, partial on error
  - error: The storage error that aborted the sweep, if any
*/
func (service *Service) CleanupExpiredCreatorData(context context.Context, now time.Time) (*SweepResult, error) {
	cutoff := now.AddDate(0, -constants.CreatorRetentionMonths, 0)

	expired, err := service.flagRepository.ListExpired(context, cutoff)
	if err != nil {
		return &SweepResult{}, err
	}

	result := &SweepResult{}

	for _, userID := range expired {
		result.ScannedCount++

		deleted, err := service.profileRepository.Delete(context, userID)
		if err != nil {
			return result, err
		}
		if deleted {
			result.DeletedCount++
		}

		if err := service.flagRepository.ClearDisabledAt(context, userID); err != nil {
			return result, err
		}
	}

	service.logger.Info("creator_retention_sweep_completed",
		slog.Int("scanned", result.ScannedCount),
		slog.Int("deleted", result.DeletedCount),
	)

	return result, nil
}

// # Creator Profile

// ProfilePatch holds the whitelisted mutable profile fields.
type ProfilePatch struct {
	DisplayName *string
	Bio         *string
	Links       map[string]string
}

// GetProfile returns the creator profile for the given user.
func (service *Service) GetProfile(context context.Context, userID string) (*CreatorProfile, error) {
	return service.profileRepository.Find(context, userID)
}

/*
UpdateProfile applies a partial update to the creator profile.

Description: Creates the profile on first write, so a member can fill in
their public page right after enabling CreatorHub.

Parameters:
  - context: context.Context
  - userID: string
  - patch: ProfilePatch

Returns:
  - *CreatorProfile: Updated profile state
  - error: Validation or storage errors
*/
func (service *Service) UpdateProfile(context context.Context, userID string, patch ProfilePatch) (*CreatorProfile, error) {
	validator := &validate.Validator{}
	if patch.DisplayName != nil {
		validator.Required(FieldDisplayName, *patch.DisplayName).MaxLen(FieldDisplayName, *patch.DisplayName, MaxDisplayNameLen)
	}
	if patch.Bio != nil {
		validator.MaxLen(FieldBio, *patch.Bio, MaxBioLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	profile, err := service.profileRepository.Find(context, userID)
	if err != nil {
		if !apperr.IsNotFound(err) {
			return nil, err
		}
		profile = &CreatorProfile{UserID: userID}
	}

	if patch.DisplayName != nil {
		profile.DisplayName = *patch.DisplayName
	}
	if patch.Bio != nil {
		profile.Bio = *patch.Bio
	}
	if patch.Links != nil {
		profile.Links = patch.Links
	}

	if err := service.profileRepository.Upsert(context, profile); err != nil {
		return nil, fmt.Errorf("creator_service_profile_failed: %w", err)
	}

	return service.profileRepository.Find(context, userID)
}
