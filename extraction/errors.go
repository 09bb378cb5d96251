package extraction

import "errors"

var (
	// ErrInvalidURL indicates a source URL that is not http or https.
	ErrInvalidURL = errors.New("invalid source URL")

	// ErrNoCaptions indicates a video with no retrievable caption track.
	ErrNoCaptions = errors.New("no captions available")

	// ErrNoStrategy indicates a content kind with no extraction strategy.
	ErrNoStrategy = errors.New("no extraction strategy for content kind")
)
