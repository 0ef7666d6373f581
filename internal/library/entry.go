// Shelfcast - Reading and Watching Tracker with Cross-Media Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfcast

package library

import (
	"errors"
	"strings"
	"time"

	"github.com/tomtom215/shelfcast/internal/recommend"
)

// Errors
var (
	// ErrNotFound is returned when an entry does not exist.
	ErrNotFound = errors.New("library entry not found")

	// ErrInvalidKey is returned for user or item IDs that cannot be stored.
	ErrInvalidKey = errors.New("invalid library key")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("library is closed")
)

// Status is where the user is with an item.
type Status string

const (
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusDropped    Status = "dropped"
)

// Entry is one item on a user's list.
type Entry struct {
	UserID string         `json:"user_id"`
	Item   recommend.Item `json:"item" validate:"required"`

	Status   Status `json:"status,omitempty" validate:"omitempty,oneof=planned in_progress completed dropped"`
	Rating   int    `json:"rating,omitempty" validate:"gte=0,lte=5"`
	Notes    string `json:"notes,omitempty" validate:"max=2000"`
	Progress int    `json:"progress,omitempty" validate:"gte=0,lte=100"`

	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	entryKeyPrefix = "entry:"
	keySeparator   = ":"
)

// validKeyPart rejects parts that would break prefix scans.
func validKeyPart(s string) bool {
	return s != "" && !strings.Contains(s, keySeparator)
}

func userPrefix(userID string) []byte {
	return []byte(entryKeyPrefix + userID + keySeparator)
}

func kindPrefix(userID string, kind recommend.MediaKind) []byte {
	return []byte(entryKeyPrefix + userID + keySeparator + string(kind) + keySeparator)
}

// entryKey builds the storage key. Item IDs may contain the separator
// ("ol:OL27448W"); they are always the last key component.
func entryKey(userID string, kind recommend.MediaKind, itemID string) []byte {
	return []byte(entryKeyPrefix + userID + keySeparator + string(kind) + keySeparator + itemID)
}
