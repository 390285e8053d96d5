package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/voltlab/sldraw/pkg/layout"
	"github.com/voltlab/sldraw/pkg/sld"
)

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a cache key of the form prefix:hash(parts...). The full
// SHA-256 digest is kept to rule out collisions.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// DocumentKey derives the content hash of a document. Two documents with
// identical components and connections share a key regardless of where
// they came from.
func DocumentKey(doc *sld.Document) string {
	data, _ := json.Marshal(doc)
	return "doc:" + Hash(data)
}

// LayoutKey derives the key for a computed layout: the document hash
// combined with every geometry option that influences placement.
func LayoutKey(docKey string, opts layout.Options) string {
	return hashKey("layout", docKey,
		opts.GridSize, opts.LevelWidth, opts.BaseOffset,
		opts.NodeHeight, opts.SpecLineHeight,
		opts.RootGap, opts.TopMargin, opts.BottomMargin,
		opts.MinCanvasHeight, opts.Ranks)
}

// ArtifactKey derives the key for a rendered artifact (svg, png, dot) of
// a cached layout.
func ArtifactKey(layoutKey, format string) string {
	return hashKey("artifact", layoutKey, format)
}
