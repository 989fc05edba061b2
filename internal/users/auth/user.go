// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package auth implements account signup and the token lifecycle: bcrypt
credential verification, short-lived HS256 access tokens, and opaque
refresh tokens backed by Redis sessions.

# Architecture

  - Entities: User (shared with the account package).
  - The access token carries the user identity; refresh tokens are
    random session ids resolvable only through Redis.
  - Refresh performs rotation: the presented session is consumed and a
    fresh one is issued.
*/
package auth

import (
	"time"

	"github.com/dramirezb/cinemateca/internal/platform/sec"
	"github.com/dramirezb/cinemateca/internal/upload"
)

// # Domain Enums

// Gender values accepted at signup.
const (
	GenderMale        = "male"
	GenderFemale      = "female"
	GenderOther       = "other"
	GenderUnspecified = "unspecified"
)

// Account status values.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Genders lists every accepted gender value, for validation.
var Genders = []string{GenderMale, GenderFemale, GenderOther, GenderUnspecified}

// User represents one account row.
//
// PasswordHash never leaves the process: it is excluded from JSON
// serialization entirely.
type User struct {
	ID              string       `json:"id"`
	FirstName       string       `json:"firstName"`
	LastName        string       `json:"lastName"`
	Email           string       `json:"email"`
	PasswordHash    string       `json:"-"`
	Gender          *string      `json:"gender"`
	Birthday        *time.Time   `json:"birthday"`
	ProfileImageURL *string      `json:"profileImageUrl"`
	Role            sec.UserRole `json:"role"`
	Status          string       `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

// CurrentURLs exposes the stored media fields to the upload coordinator.
func (u *User) CurrentURLs() map[string]*string {
	return map[string]*string{
		"profileImage": u.ProfileImageURL,
	}
}

// BlobURLs lists every blob the account owns, for deletion cleanup.
func (u *User) BlobURLs() []string {
	var urls []string
	if u.ProfileImageURL != nil && *u.ProfileImageURL != "" {
		urls = append(urls, *u.ProfileImageURL)
	}
	return urls
}

// FileSpecs are the upload policies of the account media fields; shared
// with the account package for profile updates.
var FileSpecs = []upload.FieldSpec{
	{Name: "profileImage", Folder: "profile_images", Kind: upload.KindImage},
}

// fieldRequirements documents the expected signup shape; it is attached
// to every 4xx response of this module.
var fieldRequirements = map[string]string{
	"firstName":    "String (1-100 chars) - REQUIRED",
	"lastName":     "String (1-100 chars) - REQUIRED",
	"email":        "Valid email address, unique - REQUIRED",
	"password":     "String (min 8 chars) - REQUIRED",
	"gender":       "One of: male, female, other, unspecified - OPTIONAL",
	"birthday":     "Date (YYYY-MM-DD), in the past, age below 120 - OPTIONAL",
	"profileImage": "Image file (jpg, png, webp, gif; max 10MB) - OPTIONAL",
}
