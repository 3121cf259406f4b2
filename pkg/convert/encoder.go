package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gen2brain/webp"

	"github.com/1F47E/go-scrollreel/pkg/frames"
)

var ErrEncoderUnavailable = errors.New("encoder unavailable")

// Encoder writes src re-encoded as WebP to dst.
type Encoder interface {
	Name() string
	// Available reports an error wrapping ErrEncoderUnavailable when the
	// encoder cannot run on this machine.
	Available() error
	Encode(ctx context.Context, src, dst string, quality int) error
}

// NewEncoder returns the encoder registered under name.
func NewEncoder(name string) (Encoder, error) {
	switch name {
	case "", "native":
		return NativeEncoder{}, nil
	case "cwebp":
		return CwebpEncoder{}, nil
	}
	return nil, fmt.Errorf("unknown encoder %q, want native or cwebp", name)
}

// NativeEncoder encodes in process.
type NativeEncoder struct{}

func (NativeEncoder) Name() string { return "native" }

func (NativeEncoder) Available() error { return nil }

func (NativeEncoder) Encode(ctx context.Context, src, dst string, quality int) error {
	img, err := frames.DecodeFile(ctx, src)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := webp.Encode(f, img, webp.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", src, err)
	}
	return f.Close()
}

// CwebpEncoder shells out to the cwebp tool.
type CwebpEncoder struct {
	// Bin is the binary to run, "cwebp" from PATH when empty.
	Bin string
}

func (e CwebpEncoder) bin() string {
	if e.Bin == "" {
		return "cwebp"
	}
	return e.Bin
}

func (e CwebpEncoder) Name() string { return "cwebp" }

func (e CwebpEncoder) Available() error {
	if _, err := exec.LookPath(e.bin()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncoderUnavailable, e.bin(), err)
	}
	return nil
}

func (e CwebpEncoder) Encode(ctx context.Context, src, dst string, quality int) error {
	cmd := exec.CommandContext(ctx, e.bin(), "-quiet", "-q", strconv.Itoa(quality), src, "-o", dst)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", e.bin(), err, msg)
		}
		return fmt.Errorf("%s: %w", e.bin(), err)
	}
	return nil
}
