// Package video cuts a video into a frame sequence with ffmpeg.
package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
	"github.com/1F47E/go-scrollreel/pkg/frames"
	"github.com/1F47E/go-scrollreel/pkg/logger"
)

var ErrFFmpegUnavailable = errors.New("ffmpeg unavailable")

type Extractor struct {
	// Bin is the ffmpeg binary, "ffmpeg" from PATH when empty.
	Bin string
	// Template names the output frames. Its extension picks the image
	// format written by ffmpeg.
	Template frames.Template
	// FPS resamples the video when positive, otherwise every frame is kept.
	FPS float64
	// Width scales the frames keeping the aspect ratio when positive.
	Width int
}

func New(dir string) *Extractor {
	t := frames.Default(dir)
	t.Ext = ".png"
	return &Extractor{Template: t}
}

func (e *Extractor) bin() string {
	if e.Bin == "" {
		return "ffmpeg"
	}
	return e.Bin
}

// args builds the ffmpeg command line for input.
func (e *Extractor) args(input string) []string {
	args := []string{"-y", "-loglevel", "error", "-i", input}
	var filters []string
	if e.FPS > 0 {
		filters = append(filters, "fps="+strconv.FormatFloat(e.FPS, 'f', -1, 64))
	}
	if e.Width > 0 {
		filters = append(filters, fmt.Sprintf("scale=%d:-2", e.Width))
	}
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	pattern := fmt.Sprintf("%s%%0%dd%s", e.Template.Prefix, e.Template.Pad, e.Template.Ext)
	return append(args, "-start_number", strconv.Itoa(cfg.FrameStart), filepath.Join(e.Template.Dir, pattern))
}

// Extract writes the frames of input into the template folder, creating it
// if needed, and returns the number of frames found there afterwards.
func (e *Extractor) Extract(ctx context.Context, input string) (int, error) {
	log := logger.Log.WithField("scope", "video")
	if _, err := exec.LookPath(e.bin()); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrFFmpegUnavailable, e.bin(), err)
	}
	if _, err := os.Stat(input); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(e.Template.Dir, 0o755); err != nil {
		return 0, err
	}

	args := e.args(input)
	log.Debugf("Running ffmpeg command: %s %s", e.bin(), strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, e.bin(), args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return 0, fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return 0, fmt.Errorf("ffmpeg: %w", err)
	}

	names, err := frames.Scan(e.Template.Dir, e.Template.Match)
	if err != nil {
		return 0, err
	}
	return len(names), nil
}
