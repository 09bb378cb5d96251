package extraction

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/synapselabs/synapse/core"
)

// youtubeIDPattern matches the known YouTube URL shapes and captures the
// 11-character video id.
var youtubeIDPattern = regexp.MustCompile(
	`(?:youtube\.com/(?:watch\?v=|embed/|v/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// YouTubeVideoID extracts the video id from a YouTube URL, or returns
// false when the URL does not match a known shape.
func YouTubeVideoID(rawURL string) (string, bool) {
	m := youtubeIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// captionTrack is the timedtext XML document served for a video's
// caption transcript.
type captionTrack struct {
	Segments []captionSegment `xml:"text"`
}

type captionSegment struct {
	Content string `xml:",chardata"`
}

// extractYouTube fetches a video's caption track and joins the segment
// texts with single spaces.
func (d *Dispatcher) extractYouTube(ctx context.Context, src Source) ([]Result, error) {
	videoID, ok := YouTubeVideoID(src.URL)
	if !ok {
		return nil, fmt.Errorf("%w: not a recognized video URL: %q", ErrInvalidURL, src.URL)
	}

	transcript, err := d.fetchCaptions(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if transcript == "" {
		return nil, fmt.Errorf("%w: video %s", ErrNoCaptions, videoID)
	}

	return []Result{{Text: capText(transcript), Kind: core.ExtractionYouTube}}, nil
}

// captionEndpoint serves timedtext caption tracks. Overridable for tests.
var captionEndpoint = "https://video.google.com/timedtext"

func (d *Dispatcher) fetchCaptions(ctx context.Context, videoID string) (string, error) {
	query := url.Values{"lang": {"en"}, "v": {videoID}}
	endpoint := captionEndpoint + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching captions for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching captions for %s: status %d", videoID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading captions for %s: %w", videoID, err)
	}
	if len(body) == 0 {
		// The endpoint serves an empty body for videos without captions.
		return "", nil
	}

	var track captionTrack
	if err := xml.Unmarshal(body, &track); err != nil {
		return "", fmt.Errorf("parsing captions for %s: %w", videoID, err)
	}

	parts := make([]string, 0, len(track.Segments))
	for _, seg := range track.Segments {
		// Caption text arrives double-escaped.
		text := strings.TrimSpace(html.UnescapeString(seg.Content))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
