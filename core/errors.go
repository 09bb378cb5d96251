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

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates a ContentItem failed validation.
	ErrInvalidItem = errors.New("invalid content item")

	// ErrUnknownKind indicates a content kind outside the closed set.
	ErrUnknownKind = errors.New("unknown content kind")

	// ErrInvalidStatus indicates an invalid ItemStatus value.
	ErrInvalidStatus = errors.New("invalid item status")

	// ErrMissingOwner indicates the Owner field is unset.
	ErrMissingOwner = errors.New("owner is required")

	// ErrMissingSource indicates an item has neither a source URL nor uploads.
	ErrMissingSource = errors.New("item needs a source URL or at least one upload")

	// ErrConflictingSources indicates an item has both a source URL and uploads.
	ErrConflictingSources = errors.New("source URL and uploads are mutually exclusive")

	// ErrEmptyTagName indicates a tag name is empty after normalization.
	ErrEmptyTagName = errors.New("tag name cannot be empty")
)
