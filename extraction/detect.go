package extraction

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/synapselabs/synapse/core"
)

// DetectKind sniffs the content kind of an upload from its bytes.
// Unrecognized formats fall back to KindText so they still flow through
// the plain-text strategy rather than being rejected.
func DetectKind(data []byte) core.ContentKind {
	mime := mimetype.Detect(data)

	switch {
	case mime.Is("application/pdf"):
		return core.KindDocument
	case strings.HasPrefix(mime.String(), "image/"):
		return core.KindImage
	case strings.HasPrefix(mime.String(), "video/"),
		strings.HasPrefix(mime.String(), "audio/"):
		return core.KindVideo
	default:
		return core.KindText
	}
}

// DetectURLKind classifies a source URL as a video link or a web page.
func DetectURLKind(rawURL string) core.ContentKind {
	if _, ok := YouTubeVideoID(rawURL); ok {
		return core.KindYouTube
	}
	return core.KindWebpage
}
