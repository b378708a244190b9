// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package notify delivers creator-facing notifications over a message queue.

Notifications are strictly best-effort. Delivery failures are logged and
reported to the caller as a boolean, never as an error: a retention sweep
or a CreatorHub toggle must not fail because the broker is unreachable.

Core Responsibilities:

  - Fan-out: Publish notification events for downstream consumers.
  - Isolation: Keep broker failures out of domain transaction paths.
*/
package notify

import (
	stdctx "context"
	"time"
)

// Notification kinds published by the Komiko services.
const (
	KindCreatorHubEnabled  = "creatorhub.enabled"
	KindCreatorHubDisabled = "creatorhub.disabled"
	KindComicPublished     = "comic.published"
)

// Message is the wire payload placed on the notification queue.
type Message struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	RecipientID string         `json:"recipient_id"`
	Payload     map[string]any `json:"payload,omitempty"`
	SentAt      time.Time      `json:"sent_at"`
}

// Notifier abstracts the notification delivery mechanism.
type Notifier interface {
	// Send publishes a notification of the given kind to the recipient.
	// It returns true when the message was handed to the broker and false
	// otherwise. It never returns an error.
	Send(context stdctx.Context, kind string, recipientID string, payload map[string]any) bool
}
