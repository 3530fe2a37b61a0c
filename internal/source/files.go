// Package source reads menu photos from the local filesystem.
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/timmy/dishlingo/internal/domain"
)

// imageExtensions are the file types picked up when a directory is given.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MenuPhoto is one photo found on disk. Its format is sniffed from the
// bytes on Load, not taken from the extension.
type MenuPhoto struct {
	Path string
}

// Collect expands paths into menu photos. Files are kept in argument order;
// a directory contributes its image files sorted by name. Subdirectories are
// not walked.
func Collect(paths []string) ([]MenuPhoto, error) {
	var photos []MenuPhoto
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			photos = append(photos, MenuPhoto{Path: p})
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}

		var names []string
		for _, e := range entries {
			if e.IsDir() || !IsImageFile(e.Name()) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			photos = append(photos, MenuPhoto{Path: filepath.Join(p, name)})
		}
	}
	return photos, nil
}

// IsImageFile reports whether name has a supported image extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Load reads every photo and encodes it as a data URI image input.
// Parameters:
//   - ctx: checked between files so a long batch can be interrupted.
//   - photos: photos in page order.
// Returns:
//   - []domain.ImageInput: one input per photo, same order.
//   - error: non-nil if a file cannot be read or is not a decodable image.
func Load(ctx context.Context, photos []MenuPhoto) ([]domain.ImageInput, error) {
	inputs := make([]domain.ImageInput, 0, len(photos))
	for _, photo := range photos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(photo.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", photo.Path, err)
		}

		input, err := domain.NewImageInputFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", photo.Path, err)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}
