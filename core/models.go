package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/google/uuid"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content always produces identical IDs; it is used for content
// fingerprints and tag identities.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentKind identifies the kind of content an item holds.
// It is a closed set; extraction strategies are dispatched by kind.
type ContentKind string

const (
	// KindDocument is an uploaded document (PDF).
	KindDocument ContentKind = "document"
	// KindImage is an uploaded image (photo, screenshot, diagram).
	KindImage ContentKind = "image"
	// KindVideo is uploaded audio or video.
	KindVideo ContentKind = "video"
	// KindText is an uploaded plain-text file.
	KindText ContentKind = "text"
	// KindWebpage is a web page referenced by URL.
	KindWebpage ContentKind = "webpage"
	// KindYouTube is a video-sharing link with a fetchable caption track.
	KindYouTube ContentKind = "youtube"
)

// ContentKinds lists every valid content kind.
var ContentKinds = []ContentKind{
	KindDocument, KindImage, KindVideo, KindText, KindWebpage, KindYouTube,
}

// Valid reports whether k is a member of the closed kind set.
func (k ContentKind) Valid() bool {
	for _, known := range ContentKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ParseContentKind converts a string to a ContentKind.
// Returns ErrUnknownKind for values outside the closed set.
func ParseContentKind(s string) (ContentKind, error) {
	k := ContentKind(s)
	if !k.Valid() {
		return "", ErrUnknownKind
	}
	return k, nil
}

// ItemStatus is the lifecycle status of a content item.
// Transitions: processing -> ready or failed; terminal states are re-entered
// only by explicitly re-triggering the pipeline.
type ItemStatus string

const (
	// StatusProcessing means the extraction pipeline is running for the item.
	StatusProcessing ItemStatus = "processing"
	// StatusReady means the pipeline completed and the item is searchable.
	StatusReady ItemStatus = "ready"
	// StatusFailed means the pipeline hit an unrecoverable fault.
	StatusFailed ItemStatus = "failed"
)

// ExtractionKind tags which strategy produced an extraction record.
type ExtractionKind string

const (
	ExtractionPDFText    ExtractionKind = "pdf-text"
	ExtractionPlainText  ExtractionKind = "text"
	ExtractionOCR        ExtractionKind = "ocr"
	ExtractionVision     ExtractionKind = "vision-description"
	ExtractionTranscript ExtractionKind = "transcript"
	ExtractionWebText    ExtractionKind = "web-text"
	ExtractionYouTube    ExtractionKind = "youtube-transcript"
)

// Upload references one uploaded source file belonging to an item.
// Kind is the declared file kind; when empty the pipeline sniffs it from
// the file bytes.
type Upload struct {
	Key  string
	Kind ContentKind
}

// ContentItem is one user-owned unit of knowledge.
// Created on submission; status, summary, and extracted text are mutated
// only by the pipeline.
type ContentItem struct {
	Id            ID
	Owner         uuid.UUID
	Kind          ContentKind
	Title         string
	Summary       string
	ExtractedText string
	SourceURL     string   // set for webpage/youtube items, exclusive with Uploads
	Uploads       []Upload // set for file-backed items
	Fingerprint   ID       // hash of the source identity, for dedup at submission
	Status        ItemStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExtractionRecord is one raw extraction result for an item.
// Immutable once created; multiple records may exist per item, one per
// source. Confidence is nil when the strategy has no score.
type ExtractionRecord struct {
	Id         ID
	ItemId     ID
	Kind       ExtractionKind
	Content    string
	Confidence *float64
	CreatedAt  time.Time
}

// Chunk is a contiguous slice of an item's combined extracted text.
// Chunks are produced by the chunker and exist to be embedded; they are
// not persisted on their own.
type Chunk struct {
	Index     int
	Text      string
	StartChar int
	EndChar   int
}

// EmbeddingRecord is the persisted vector for one chunk of an item.
// ChunkText is truncated for storage economy; Vector dimensionality is
// constant across all records sharing a Model.
type EmbeddingRecord struct {
	ItemId     ID
	ChunkIndex int
	ChunkText  string
	Vector     []float32
	Model      string
	CreatedAt  time.Time
}

// Tag is a deduplicated label, globally unique by name and created lazily
// on first use. Its ID is derived from its normalized name.
type Tag struct {
	Id        ID
	Name      string
	CreatedAt time.Time
}

// ChunkMatch is one chunk-level similarity hit inside an item.
type ChunkMatch struct {
	ChunkIndex int
	Text       string
	Similarity float64
}

// ItemResult is a ranked search result grouped by item.
// Score is the fused ranking score; the per-signal scores are retained so
// hybrid fusion and callers can inspect each signal's contribution.
type ItemResult struct {
	Item          *ContentItem
	Score         float64
	SemanticScore float64
	KeywordScore  float64
	Matches       []ChunkMatch
}
