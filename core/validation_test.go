package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidateContentItem(t *testing.T) {
	owner := uuid.New()

	tests := []struct {
		name    string
		item    *ContentItem
		wantErr error
	}{
		{
			name: "valid url item",
			item: &ContentItem{
				Owner:     owner,
				Kind:      KindWebpage,
				SourceURL: "https://example.com/article",
			},
			wantErr: nil,
		},
		{
			name: "valid upload item",
			item: &ContentItem{
				Owner:   owner,
				Kind:    KindDocument,
				Uploads: []Upload{{Key: "docs/paper.pdf", Kind: KindDocument}},
			},
			wantErr: nil,
		},
		{
			name:    "nil item",
			item:    nil,
			wantErr: ErrInvalidItem,
		},
		{
			name: "missing owner",
			item: &ContentItem{
				Kind:      KindWebpage,
				SourceURL: "https://example.com",
			},
			wantErr: ErrMissingOwner,
		},
		{
			name: "unknown kind",
			item: &ContentItem{
				Owner:     owner,
				Kind:      ContentKind("scroll"),
				SourceURL: "https://example.com",
			},
			wantErr: ErrUnknownKind,
		},
		{
			name: "no sources",
			item: &ContentItem{
				Owner: owner,
				Kind:  KindText,
			},
			wantErr: ErrMissingSource,
		},
		{
			name: "both url and uploads",
			item: &ContentItem{
				Owner:     owner,
				Kind:      KindWebpage,
				SourceURL: "https://example.com",
				Uploads:   []Upload{{Key: "notes.txt", Kind: KindText}},
			},
			wantErr: ErrConflictingSources,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContentItem(tt.item)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateItemStatus(t *testing.T) {
	for _, status := range []ItemStatus{StatusProcessing, StatusReady, StatusFailed} {
		if err := ValidateItemStatus(status); err != nil {
			t.Fatalf("unexpected error for %q: %v", status, err)
		}
	}
	if err := ValidateItemStatus(ItemStatus("paused")); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Machine Learning", "machine-learning"},
		{"  productivity  ", "productivity"},
		{"ALREADY-HYPHENATED", "already-hyphenated"},
	}
	for _, tt := range tests {
		got, err := NormalizeTagName(tt.in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("NormalizeTagName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := NormalizeTagName("   "); !errors.Is(err, ErrEmptyTagName) {
		t.Fatalf("expected ErrEmptyTagName, got %v", err)
	}

	long, err := NormalizeTagName(strings.Repeat("a", 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(long) != 64 {
		t.Fatalf("expected 64-char cap, got %d", len(long))
	}
}
