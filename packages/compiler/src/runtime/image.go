package runtime

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageSize reads the pixel size of an encoded image without decoding the pixels.
// PNG, JPEG, GIF, BMP, TIFF and WebP are recognized.
func ImageSize(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// LoadImage returns an image referring to path, with its size filled in.
// A file that cannot be read yields an image of size 0x0 and the error.
func LoadImage(path string) (Image, error) {
	img := Image{Path: path}
	f, err := os.Open(path)
	if err != nil {
		return img, err
	}
	defer f.Close()
	img.Width, img.Height, err = ImageSize(f)
	return img, err
}

// EmbeddedImage returns an image for embedded resource id, sized from its data
func EmbeddedImage(id int, extension string, data []byte) Image {
	img := Image{ResourceID: id, Extension: extension, Embedded: true}
	if len(data) > 0 {
		img.Width, img.Height, _ = ImageSize(bytes.NewReader(data))
	}
	return img
}
