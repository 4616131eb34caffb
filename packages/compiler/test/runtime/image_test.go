package runtime_test

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"

	"slintc-go/packages/compiler/src/runtime"
)

func TestImageSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 7, 3))

	t.Run("png file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logo.png")
		var buf bytes.Buffer
		if err := png.Encode(&buf, src); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
		img, err := runtime.LoadImage(path)
		if err != nil {
			t.Fatal(err)
		}
		if img.Path != path || img.Width != 7 || img.Height != 3 {
			t.Errorf("got %+v", img)
		}
	})

	t.Run("embedded bmp", func(t *testing.T) {
		var buf bytes.Buffer
		if err := bmp.Encode(&buf, src); err != nil {
			t.Fatal(err)
		}
		img := runtime.EmbeddedImage(2, "bmp", buf.Bytes())
		if !img.Embedded || img.ResourceID != 2 || img.Width != 7 || img.Height != 3 {
			t.Errorf("got %+v", img)
		}
	})

	t.Run("unreadable", func(t *testing.T) {
		img, err := runtime.LoadImage(filepath.Join(t.TempDir(), "missing.png"))
		if !errors.Is(err, fs.ErrNotExist) || img.Width != 0 {
			t.Errorf("got %+v, %v", img, err)
		}
		if _, _, err := runtime.ImageSize(bytes.NewReader([]byte("not an image"))); err == nil {
			t.Error("expected an error for garbage data")
		}
		if img := runtime.EmbeddedImage(0, "png", nil); img.Width != 0 || img.Height != 0 {
			t.Errorf("got %+v", img)
		}
	})
}
