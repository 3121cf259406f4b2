// Package convert re-encodes the frames of a sequence to WebP in place.
//
// Every frame is encoded into a temp_ file next to it; only when that
// succeeds is the original removed and the temp file moved into its place.
// A failing frame is reported and skipped, the others still convert.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dustin/go-humanize"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
	"github.com/1F47E/go-scrollreel/pkg/frames"
	"github.com/1F47E/go-scrollreel/pkg/job"
	"github.com/1F47E/go-scrollreel/pkg/logger"
	"github.com/1F47E/go-scrollreel/pkg/workers"
)

var log = logger.Log

// Report sums up a conversion. Byte counts cover converted files only.
type Report struct {
	Found       int
	Converted   int
	Failed      int
	BytesBefore int64
	BytesAfter  int64
	// Failures lists the files that failed, in frame order.
	Failures []job.JobConvRes
}

// Saved is BytesBefore minus BytesAfter, negative when the files grew.
func (r Report) Saved() int64 {
	return r.BytesBefore - r.BytesAfter
}

// Savings is the saved share of BytesBefore in percent.
func (r Report) Savings() float64 {
	if r.BytesBefore == 0 {
		return 0
	}
	return float64(r.Saved()) / float64(r.BytesBefore) * 100
}

func (r Report) String() string {
	s := fmt.Sprintf("converted %d/%d files", r.Converted, r.Found)
	if r.Failed > 0 {
		s += fmt.Sprintf(", %d failed", r.Failed)
	}
	if r.Converted == 0 {
		return s
	}
	s += fmt.Sprintf(", %s -> %s", humanize.Bytes(uint64(r.BytesBefore)), humanize.Bytes(uint64(r.BytesAfter)))
	if saved := r.Saved(); saved >= 0 {
		s += fmt.Sprintf(", saved %.1f%% (%s)", r.Savings(), humanize.Bytes(uint64(saved)))
	} else {
		s += fmt.Sprintf(", grew %.1f%% (%s)", -r.Savings(), humanize.Bytes(uint64(-saved)))
	}
	return s
}

type Converter struct {
	Template frames.Template
	Quality  int
	// Workers is the number of files converted at once, the number of CPUs
	// when zero.
	Workers int
	Encoder Encoder

	// OnStart is called once with the number of files found, OnFile after
	// every file. Both run on the goroutine calling Run.
	OnStart func(found int)
	OnFile  func(res job.JobConvRes)
}

// New returns a converter for the frames in dir using the default quality
// and the native encoder.
func New(dir string) *Converter {
	return &Converter{
		Template: frames.Default(dir),
		Quality:  cfg.WebPQuality,
		Encoder:  NativeEncoder{},
	}
}

// Run converts every frame matching the template. Errors are returned for a
// missing folder, an unavailable encoder or a cancelled context; failures of
// single files only show in the report.
func (c *Converter) Run(ctx context.Context) (Report, error) {
	log := log.WithField("scope", "convert")
	var report Report

	if c.Quality < 0 || c.Quality > 100 {
		return report, fmt.Errorf("quality must be within 0..100: %d", c.Quality)
	}
	if c.Encoder == nil {
		c.Encoder = NativeEncoder{}
	}
	names, err := frames.Scan(c.Template.Dir, c.Template.Match)
	if err != nil {
		return report, err
	}
	if err := c.Encoder.Available(); err != nil {
		return report, err
	}

	report.Found = len(names)
	if c.OnStart != nil {
		c.OnStart(report.Found)
	}
	if report.Found == 0 {
		log.Warnf("no frames matching %s in %s", c.Template.Name(cfg.FrameStart), c.Template.Dir)
		return report, nil
	}
	log.Debugf("converting %d frames with %s encoder, quality %d", report.Found, c.Encoder.Name(), c.Quality)

	// ===== START WORKERS

	n := c.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	jobs := make(chan job.JobConv)
	results := make(chan job.JobConvRes)
	w := workers.NewWorker(ctx, c.convertFile)

	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.WorkerConvert(i, jobs, results)
		}(i)
	}
	go func() {
		defer close(jobs)
		for i, name := range names {
			select {
			case jobs <- job.New(i, filepath.Join(c.Template.Dir, name)):
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	failures := make(map[int]job.JobConvRes)
	for r := range results {
		if r.Err != nil {
			report.Failed++
			failures[r.Idx] = r
			log.Errorf("failed to convert %s: %v", filepath.Base(r.Path), r.Err)
		} else {
			report.Converted++
			report.BytesBefore += r.Before
			report.BytesAfter += r.After
		}
		if c.OnFile != nil {
			c.OnFile(r)
		}
	}
	for i := range names {
		if r, ok := failures[i]; ok {
			report.Failures = append(report.Failures, r)
		}
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// convertFile encodes j.Path into a temp file and swaps it in.
func (c *Converter) convertFile(ctx context.Context, j job.JobConv) job.JobConvRes {
	res := job.JobConvRes{Idx: j.Idx, Path: j.Path}
	fail := func(err error) job.JobConvRes {
		res.Err = err
		return res
	}

	fi, err := os.Stat(j.Path)
	if err != nil {
		return fail(err)
	}
	res.Before = fi.Size()

	tmp := filepath.Join(filepath.Dir(j.Path), cfg.TempPrefix+filepath.Base(j.Path))
	if err := c.Encoder.Encode(ctx, j.Path, tmp, c.Quality); err != nil {
		_ = os.Remove(tmp)
		return fail(err)
	}
	fi, err = os.Stat(tmp)
	if err != nil {
		_ = os.Remove(tmp)
		return fail(err)
	}
	if err := os.Remove(j.Path); err != nil {
		_ = os.Remove(tmp)
		return fail(err)
	}
	// the original is gone, keep the temp file if it cannot be moved
	if err := os.Rename(tmp, j.Path); err != nil {
		return fail(fmt.Errorf("moving %s into place: %w", filepath.Base(tmp), err))
	}
	res.After = fi.Size()
	return res
}
