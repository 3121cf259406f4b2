package frames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
)

var ErrNotDir = errors.New("not a directory")

// Template names the frames of a sequence: Dir/Prefix + zero padded index + Ext.
type Template struct {
	Dir    string
	Prefix string
	Pad    int
	Ext    string
}

// Default returns the template used by the hero sequence in dir.
func Default(dir string) Template {
	return Template{
		Dir:    dir,
		Prefix: cfg.FramePrefix,
		Pad:    cfg.FramePadding,
		Ext:    cfg.FrameExt,
	}
}

// Name returns the file name of frame i, e.g. frame_0001.webp.
func (t Template) Name(i int) string {
	return fmt.Sprintf("%s%0*d%s", t.Prefix, t.Pad, i, t.Ext)
}

// Path returns the full path of frame i.
func (t Template) Path(i int) string {
	return filepath.Join(t.Dir, t.Name(i))
}

// Match reports whether name follows the template's naming convention.
func (t Template) Match(name string) bool {
	if !strings.HasPrefix(name, t.Prefix) || !strings.HasSuffix(name, t.Ext) {
		return false
	}
	num := strings.TrimSuffix(strings.TrimPrefix(name, t.Prefix), t.Ext)
	if len(num) < t.Pad {
		return false
	}
	_, err := strconv.ParseUint(num, 10, 32)
	return err == nil
}

// IsImage reports whether name carries one of the frame source extensions.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range cfg.ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// NaturalSort orders names so that embedded numbers compare by value and
// letters compare without regard to case: f2 < f10, A1 == a1.
func NaturalSort(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a == b {
			return names[i] < names[j]
		}
		return natural.Less(a, b)
	})
}

// Scan lists the regular files in dir accepted by match, in natural order.
func Scan(dir string, match func(name string) bool) ([]string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDir)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if match(e.Name()) {
			names = append(names, e.Name())
		}
	}
	NaturalSort(names)
	return names, nil
}
