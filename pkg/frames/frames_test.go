package frames

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTemplateName(t *testing.T) {
	testCases := []struct {
		name string
		tmpl Template
		idx  int
		want string
	}{
		{
			name: "default",
			tmpl: Default("assets"),
			idx:  1,
			want: "frame_0001.webp",
		},
		{
			name: "last hero frame",
			tmpl: Default("assets"),
			idx:  240,
			want: "frame_0240.webp",
		},
		{
			name: "wider than pad",
			tmpl: Template{Prefix: "f", Pad: 2, Ext: ".png"},
			idx:  123,
			want: "f123.png",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.tmpl.Name(tc.idx)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTemplatePath(t *testing.T) {
	got := Default("public/hero").Path(7)
	want := filepath.Join("public/hero", "frame_0007.webp")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTemplateMatch(t *testing.T) {
	tmpl := Default("")
	testCases := []struct {
		name string
		want bool
	}{
		{"frame_0001.webp", true},
		{"frame_12345.webp", true},
		{"frame_001.webp", false},
		{"frame_0001.png", false},
		{"temp_frame_0001.webp", false},
		{"frame_abcd.webp", false},
		{"frame_.webp", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tmpl.Match(tc.name); got != tc.want {
				t.Errorf("Match(%q) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestIsImage(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png":      true,
		"a.JPG":      true,
		"a.jpeg":     true,
		"a.webp":     true,
		"a.gif":      false,
		"notes.txt":  false,
		"noext":      false,
		"a.webp.bak": false,
	} {
		if got := IsImage(name); got != want {
			t.Errorf("IsImage(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestNaturalSort(t *testing.T) {
	names := []string{
		"shot10.png",
		"Shot2.png",
		"shot1.png",
		"ezgif-frame-100.jpg",
		"ezgif-frame-009.jpg",
		"shot2.png",
	}
	NaturalSort(names)
	want := []string{
		"ezgif-frame-009.jpg",
		"ezgif-frame-100.jpg",
		"shot1.png",
		"Shot2.png",
		"shot2.png",
		"shot10.png",
	}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"frame_0010.webp", "frame_0002.webp", "notes.txt", "frame_0001.webp"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "frame_0003.webp"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Scan(dir, Default(dir).Match)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"frame_0001.webp", "frame_0002.webp", "frame_0010.webp"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected files (-want +got):\n%s", diff)
	}
}

func TestScanErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Scan(filepath.Join(dir, "missing"), IsImage)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing dir: got %v, want ErrNotExist", err)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Scan(file, IsImage)
	if !errors.Is(err, ErrNotDir) {
		t.Errorf("file: got %v, want ErrNotDir", err)
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	tmpl := Default(dir)

	// png content behind a .webp name, as left by the renamer
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(tmpl.Path(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	l := NewLoader(tmpl)
	got, err := l.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("got bounds %v, want %v", got.Bounds(), img.Bounds())
	}

	if _, err := l.Load(context.Background(), 2); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing frame: got %v, want ErrNotExist", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: got %v, want context.Canceled", err)
	}
}
