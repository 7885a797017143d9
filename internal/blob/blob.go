// Package blob stores uploaded files on disk and hands back the public
// URL the document bodies keep as plain strings. Nothing in the app ever
// reads a blob back through this package.
package blob

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// maxImageWidth is the width uploads are normalized to before encoding.
const maxImageWidth = 1200

// Store writes uploads under Dir and serves them below URLPrefix.
type Store struct {
	Dir       string
	URLPrefix string
}

func NewStore(dir, urlPrefix string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// SaveImage decodes a png/jpeg upload, scales it down to maxImageWidth
// and re-encodes it as jpeg under a fresh name. Returns the public URL.
func (s *Store) SaveImage(r io.Reader, filename string) (string, error) {
	var img image.Image
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		img, err = png.Decode(r)
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(r)
	default:
		return "", fmt.Errorf("unsupported image format %q, only png/jpg/jpeg", filepath.Ext(filename))
	}
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	name := uuid.New().String() + ".jpg"
	out, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	return s.URLPrefix + "/" + name, nil
}

// SaveFile stores bytes as-is, keeping the original extension. Used for
// video uploads and other opaque assets.
func (s *Store) SaveFile(r io.Reader, filename string) (string, error) {
	name := uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	out, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return s.URLPrefix + "/" + name, nil
}
