package frames

import (
	"bufio"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/webp"

	"github.com/1F47E/go-scrollreel/pkg/logger"
)

// Loader reads frames of a Template from disk.
type Loader struct {
	Template Template
}

func NewLoader(t Template) *Loader {
	return &Loader{Template: t}
}

// Load decodes frame i. The context is checked before the file is opened and
// again before decoding, decoding itself is not interruptible.
func (l *Loader) Load(ctx context.Context, i int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := l.Template.Path(i)
	logger.Log.WithField("scope", "frames loader").Debugf("loading %s", path)
	return DecodeFile(ctx, path)
}

// DecodeFile decodes the image at path regardless of its extension.
func DecodeFile(ctx context.Context, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}
