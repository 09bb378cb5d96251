// Copyright 2025 Synapse Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const maxTagNameLen = 64

// ValidateContentItem validates a ContentItem according to domain rules.
//
// Validation rules:
//   - Owner must be set
//   - Kind must be a member of the closed kind set
//   - Exactly one of SourceURL or Uploads must be present
//
// NOT validated (populated by the pipeline):
//   - Summary, ExtractedText, Fingerprint
//   - ID (0 is valid from database sequences)
func ValidateContentItem(item *ContentItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.Owner == uuid.Nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrMissingOwner)
	}

	if !item.Kind.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidItem, ErrUnknownKind, string(item.Kind))
	}

	hasURL := item.SourceURL != ""
	hasUploads := len(item.Uploads) > 0
	if !hasURL && !hasUploads {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrMissingSource)
	}
	if hasURL && hasUploads {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrConflictingSources)
	}

	return nil
}

// ValidateItemStatus validates that an ItemStatus has a valid value.
func ValidateItemStatus(status ItemStatus) error {
	switch status {
	case StatusProcessing, StatusReady, StatusFailed:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidStatus, string(status))
}

// NormalizeTagName canonicalizes a generated topic label: lower-cased,
// trimmed, spaces replaced with hyphens, capped at 64 characters.
// Returns ErrEmptyTagName when nothing remains.
func NormalizeTagName(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	if len(name) > maxTagNameLen {
		name = name[:maxTagNameLen]
	}
	if name == "" {
		return "", ErrEmptyTagName
	}
	return name, nil
}
