package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgs(t *testing.T) {
	testCases := []struct {
		name  string
		fps   float64
		width int
		want  []string
	}{
		{
			name: "every frame",
			want: []string{"-y", "-loglevel", "error", "-i", "in.mp4", "-start_number", "1", filepath.Join("out", "frame_%04d.png")},
		},
		{
			name:  "resampled and scaled",
			fps:   12.5,
			width: 1920,
			want: []string{"-y", "-loglevel", "error", "-i", "in.mp4", "-vf", "fps=12.5,scale=1920:-2",
				"-start_number", "1", filepath.Join("out", "frame_%04d.png")},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := New("out")
			e.FPS = tc.fps
			e.Width = tc.width
			if diff := cmp.Diff(tc.want, e.args("in.mp4")); diff != "" {
				t.Errorf("unexpected args (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractUnavailable(t *testing.T) {
	dir := t.TempDir()
	e := New(filepath.Join(dir, "frames"))
	e.Bin = "ffmpeg-that-does-not-exist"
	_, err := e.Extract(context.Background(), "in.mp4")
	if !errors.Is(err, ErrFFmpegUnavailable) {
		t.Fatalf("error = %v, want ErrFFmpegUnavailable", err)
	}
	if _, err := os.Stat(e.Template.Dir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output folder created before failing: %v", err)
	}
}
