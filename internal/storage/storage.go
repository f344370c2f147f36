// Package storage persists generated artifacts (character portraits, battle
// scenes) and issues the public URLs the API hands to clients.
package storage

import (
	"context"
	"strings"
)

// ArtifactStore is implemented by the Supabase driver in production and the
// disk driver in development and tests.
type ArtifactStore interface {
	// Upload stores data under path and returns a publicly reachable URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// Download returns the stored bytes and their content type.
	Download(ctx context.Context, path string) ([]byte, string, error)
	// Remove deletes the artifact. Removing a missing artifact is not an error.
	Remove(ctx context.Context, path string) error
}

// ExtensionForMime maps an image MIME type to a file extension, defaulting
// to png for anything unrecognized.
func ExtensionForMime(mimeType string) string {
	if strings.Contains(mimeType, "jpeg") || strings.Contains(mimeType, "jpg") {
		return "jpg"
	}
	return "png"
}
