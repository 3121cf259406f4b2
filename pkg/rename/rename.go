// Package rename gives the images of a folder sequential frame names.
//
// Files are moved in two passes: every image first goes to a unique
// temporary name, then to its final name. Swapping names that overlap
// (frame_0002 becoming frame_0001 while frame_0001 becomes frame_0002) never
// overwrites a file. If any rename fails the files already moved are put
// back where they were.
package rename

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
	"github.com/1F47E/go-scrollreel/pkg/frames"
	"github.com/1F47E/go-scrollreel/pkg/logger"
)

var log = logger.Log

// ErrExists is returned when a rename would replace an existing file.
var ErrExists = errors.New("target already exists")

// Step moves one file: From to Temp, then Temp to To. Names are relative to
// the folder.
type Step struct {
	From string
	Temp string
	To   string
}

type Plan []Step

// Range returns the first and last final names, empty for an empty plan.
func (p Plan) Range() (string, string) {
	if len(p) == 0 {
		return "", ""
	}
	return p[0].To, p[len(p)-1].To
}

func (p Plan) String() string {
	var sb strings.Builder
	for _, s := range p {
		fmt.Fprintf(&sb, "%s -> %s\n", s.From, s.To)
	}
	return sb.String()
}

type Renamer struct {
	Dir    string
	Prefix string
	Start  int
	Pad    int
	// Ext is the extension of the final names. With KeepExt every file
	// keeps its own extension instead.
	Ext     string
	KeepExt bool
	DryRun  bool

	rename func(from, to string) error
	now    func() time.Time
}

// New returns a renamer using the frame naming defaults.
func New(dir string) *Renamer {
	return &Renamer{
		Dir:    dir,
		Prefix: cfg.FramePrefix,
		Start:  cfg.FrameStart,
		Pad:    cfg.FramePadding,
		Ext:    cfg.FrameExt,
		rename: os.Rename,
		now:    time.Now,
	}
}

func (r *Renamer) validate() error {
	if r.Start < 0 {
		return fmt.Errorf("start index must not be negative: %d", r.Start)
	}
	if r.Pad < 0 {
		return fmt.Errorf("padding must not be negative: %d", r.Pad)
	}
	if r.Ext != "" && !strings.HasPrefix(r.Ext, ".") {
		r.Ext = "." + r.Ext
	}
	if r.rename == nil {
		r.rename = os.Rename
	}
	if r.now == nil {
		r.now = time.Now
	}
	return nil
}

// Plan lists the images of the folder in natural order with their
// temporary and final names. It touches nothing.
func (r *Renamer) Plan() (Plan, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}
	names, err := frames.Scan(r.Dir, frames.IsImage)
	if err != nil {
		return nil, err
	}
	stamp := r.now().UnixNano()
	plan := make(Plan, 0, len(names))
	for i, name := range names {
		src := filepath.Ext(name)
		t := frames.Template{Prefix: r.Prefix, Pad: r.Pad, Ext: r.Ext}
		if r.KeepExt {
			t.Ext = src
		}
		plan = append(plan, Step{
			From: name,
			Temp: fmt.Sprintf("%s%d_%d%s", cfg.TempPrefix, stamp, i, src),
			To:   t.Name(r.Start + i),
		})
	}
	return plan, nil
}

// Run plans and, unless DryRun is set, applies the renames. It returns the
// plan in both cases.
func (r *Renamer) Run() (Plan, error) {
	log := log.WithField("scope", "rename")
	plan, err := r.Plan()
	if err != nil {
		return nil, err
	}
	if len(plan) == 0 {
		log.Warnf("no image files found in %s", r.Dir)
		return plan, nil
	}
	log.Debugf("found %d image files in %s", len(plan), r.Dir)
	if r.DryRun {
		return plan, nil
	}
	return plan, r.Apply(plan)
}

// move is a completed rename, kept for rollback.
type move struct{ from, to string }

// Apply executes a plan. Every target is checked before it is written to;
// on the first failure the completed moves are undone in reverse order and
// the error is returned.
func (r *Renamer) Apply(plan Plan) error {
	if err := r.validate(); err != nil {
		return err
	}
	log := log.WithField("scope", "rename")
	done := make([]move, 0, 2*len(plan))

	step := func(from, to string) error {
		src, dst := filepath.Join(r.Dir, from), filepath.Join(r.Dir, to)
		if _, err := os.Lstat(dst); err == nil {
			return fmt.Errorf("renaming %s to %s: %w", from, to, ErrExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", to, err)
		}
		if err := r.rename(src, dst); err != nil {
			return fmt.Errorf("renaming %s to %s: %w", from, to, err)
		}
		done = append(done, move{from: src, to: dst})
		return nil
	}

	log.Debug("renaming to temporary names")
	for _, s := range plan {
		if err := step(s.From, s.Temp); err != nil {
			r.rollback(done)
			return err
		}
	}
	log.Debug("renaming to final names")
	for _, s := range plan {
		if err := step(s.Temp, s.To); err != nil {
			r.rollback(done)
			return err
		}
	}
	first, last := plan.Range()
	log.Infof("renamed %d files: %s to %s", len(plan), first, last)
	return nil
}

func (r *Renamer) rollback(done []move) {
	log := log.WithField("scope", "rename")
	for i := len(done) - 1; i >= 0; i-- {
		m := done[i]
		if err := r.rename(m.to, m.from); err != nil {
			log.Warnf("rollback of %s failed: %v", filepath.Base(m.from), err)
		}
	}
	if len(done) > 0 {
		log.Warnf("rolled back %d renames", len(done))
	}
}
