// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

/*
Package series defines the collection grouping for uploaded comics.

A series is a lightweight, owner-created container; comics reference a
series by ID but membership is a shared reference, not ownership.
*/
package series

import "time"

// Series groups related comics under a single banner.
type Series struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Filter holds the parameters for a filtered series list query.
type Filter struct {
	OwnerID string `json:"owner_id,omitempty"`
	Query   string `json:"q,omitempty"`
}

// Field names for validation and dynamic query mapping.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
)

// MaxTitleLen is the upper bound on series titles.
const MaxTitleLen = 255
