package game

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/gonewx/linereveal/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// ResourceManager is responsible for centralized management of font resources.
// Font sources are parsed once per path and faces are cached per (path, size),
// so widgets created with the same font share one glyph cache.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The internal caches use standard Go maps.
// For the single-threaded game loop, no synchronization is needed.
//
// Usage:
//
//	rm := NewResourceManager()
//	face, err := rm.LoadFont("", 24) // built-in Go Regular
//	if err != nil {
//	    log.Printf("Failed to load font: %v", err)
//	}
type ResourceManager struct {
	fontSourceCache map[string]*text.GoTextFaceSource // path -> parsed font source
	fontFaceCache   map[string]*text.GoTextFace       // "path:size" -> face
}

// NewResourceManager creates and initializes a new ResourceManager instance.
func NewResourceManager() *ResourceManager {
	return &ResourceManager{
		fontSourceCache: make(map[string]*text.GoTextFaceSource),
		fontFaceCache:   make(map[string]*text.GoTextFace),
	}
}

// LoadFont loads a TrueType/OpenType font and creates a text face with the given size.
// The font face is cached for future use with a cache key combining path and size.
//
// Parameters:
//   - path: "" for the built-in Go Regular font, a "data/..." path for the embedded
//     data FS, or any other file system path.
//   - size: The font size in pixels.
//
// Returns:
//   - A pointer to the text.GoTextFace ready for rendering.
//   - An error if the file cannot be opened or parsed.
func (rm *ResourceManager) LoadFont(path string, size float64) (*text.GoTextFace, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid font size %.1f", size)
	}

	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	if cachedFace, exists := rm.fontFaceCache[cacheKey]; exists {
		return cachedFace, nil
	}

	source, err := rm.loadFontSource(path)
	if err != nil {
		return nil, err
	}

	goTextFace := &text.GoTextFace{
		Source:    source,
		Size:      size,
		Direction: text.DirectionLeftToRight,
	}
	rm.fontFaceCache[cacheKey] = goTextFace

	return goTextFace, nil
}

// GetFont retrieves a previously loaded font face from the cache, or nil.
func (rm *ResourceManager) GetFont(path string, size float64) *text.GoTextFace {
	cacheKey := fmt.Sprintf("%s:%.1f", path, size)
	return rm.fontFaceCache[cacheKey]
}

func (rm *ResourceManager) loadFontSource(path string) (*text.GoTextFaceSource, error) {
	if source, ok := rm.fontSourceCache[path]; ok {
		return source, nil
	}

	fontData, err := readFontData(path)
	if err != nil {
		return nil, err
	}

	source, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %q: %w", path, err)
	}

	rm.fontSourceCache[path] = source
	return source, nil
}

func readFontData(path string) ([]byte, error) {
	switch {
	case path == "":
		return goregular.TTF, nil
	case strings.HasPrefix(path, "data/") && embedded.IsInitialized():
		data, err := embedded.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedded font %s: %w", path, err)
		}
		return data, nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		return data, nil
	}
}
