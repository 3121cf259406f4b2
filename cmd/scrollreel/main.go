package main

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
	p "github.com/1F47E/go-scrollreel/pkg/core/progress"
	"github.com/1F47E/go-scrollreel/pkg/convert"
	"github.com/1F47E/go-scrollreel/pkg/frames"
	"github.com/1F47E/go-scrollreel/pkg/job"
	"github.com/1F47E/go-scrollreel/pkg/logger"
	"github.com/1F47E/go-scrollreel/pkg/player"
	"github.com/1F47E/go-scrollreel/pkg/rename"
	"github.com/1F47E/go-scrollreel/pkg/video"
	"github.com/1F47E/go-scrollreel/pkg/viewer"
)

var app = cli.NewApp()
var log = logger.Log

var dirFlag = cli.StringFlag{
	Name:   "dir",
	Value:  cfg.PathFramesDir,
	Usage:  "folder holding the frames",
	EnvVar: cfg.EnvFramesDir,
}

func init() {
	app.Name = "scrollreel"
	app.Usage = "Scroll driven frame sequence player and frame tools"
	app.UsageText = "scrollreel [command] [options]"
	app.HideVersion = true
	app.Commands = []cli.Command{
		{
			Name:    "play",
			Aliases: []string{"p"},
			Usage:   "Play the frames in a window, scroll to move through them",
			Flags: []cli.Flag{
				dirFlag,
				cli.IntFlag{Name: "frames", Value: cfg.FrameCount, Usage: "number of frames in the sequence"},
				cli.IntFlag{Name: "width", Value: 1280, Usage: "window width"},
				cli.IntFlag{Name: "height", Value: 720, Usage: "window height"},
				cli.BoolFlag{Name: "no-smooth", Usage: "follow the scroll position without smoothing"},
				cli.BoolFlag{Name: "hud", Usage: "show frame and cache statistics"},
			},
			Action: play,
		},
		{
			Name:      "snapshot",
			Aliases:   []string{"s"},
			Usage:     "Render the frame for a scroll progress into a PNG",
			ArgsUsage: "OUT.png",
			Flags: []cli.Flag{
				dirFlag,
				cli.IntFlag{Name: "frames", Value: cfg.FrameCount, Usage: "number of frames in the sequence"},
				cli.Float64Flag{Name: "progress", Value: 0, Usage: "scroll progress, 0..1"},
				cli.StringFlag{Name: "size", Value: "1280x720", Usage: "canvas size WxH"},
			},
			Action: snapshot,
		},
		{
			Name:      "extract",
			Aliases:   []string{"x"},
			Usage:     "Cut a video into numbered PNG frames with ffmpeg",
			ArgsUsage: "VIDEO [DIR]",
			Flags: []cli.Flag{
				cli.Float64Flag{Name: "fps", Usage: "resample to this frame rate, keep every frame when 0"},
				cli.IntFlag{Name: "width", Usage: "scale frames to this width, keep the size when 0"},
			},
			Action: extract,
		},
		{
			Name:      "rename",
			Aliases:   []string{"r"},
			Usage:     "Rename the images of a folder to sequential frame names",
			ArgsUsage: "DIR",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "prefix", Value: cfg.FramePrefix, Usage: "name prefix"},
				cli.IntFlag{Name: "start", Value: cfg.FrameStart, Usage: "first frame number"},
				cli.IntFlag{Name: "pad", Value: cfg.FramePadding, Usage: "zero padding of the frame number"},
				cli.StringFlag{Name: "ext", Value: cfg.FrameExt, Usage: "extension of the new names"},
				cli.BoolFlag{Name: "keep-ext", Usage: "keep the extension of every file"},
				cli.BoolFlag{Name: "dry-run", Usage: "print the renames without doing them"},
			},
			Action: renameFrames,
		},
		{
			Name:      "webp",
			Aliases:   []string{"w"},
			Usage:     "Re-encode the frames of a folder to WebP in place",
			ArgsUsage: "DIR",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "quality", Value: cfg.WebPQuality, Usage: "WebP quality, 0..100"},
				cli.StringFlag{Name: "encoder", Value: "native", Usage: "native or cwebp"},
				cli.IntFlag{Name: "workers", Usage: "files converted at once, number of CPUs when 0"},
			},
			Action: convertFrames,
		},
	}
}

func play(c *cli.Context) error {
	dir := c.String("dir")
	opts := player.DefaultOptions()
	opts.FrameCount = c.Int("frames")
	checkFrames(dir, opts.FrameCount)

	s := viewer.NewSurface()
	pl, err := player.New(s, viewer.Fetch(frames.NewLoader(frames.Default(dir))), opts)
	if err != nil {
		return err
	}
	pl.Cache().OnEvict = viewer.Release

	vc := viewer.DefaultConfig()
	vc.Title = fmt.Sprintf("scrollreel - %s", dir)
	vc.Width, vc.Height = c.Int("width"), c.Int("height")
	vc.Smooth = !c.Bool("no-smooth")
	vc.HUD = vc.HUD || c.Bool("hud")
	return viewer.Run(pl, s, vc)
}

func snapshot(c *cli.Context) error {
	out := c.Args().Get(0)
	if out == "" {
		return fmt.Errorf("Output filename is required")
	}
	w, h, err := parseSize(c.String("size"))
	if err != nil {
		return err
	}
	dir := c.String("dir")
	opts := player.DefaultOptions()
	opts.FrameCount = c.Int("frames")
	checkFrames(dir, opts.FrameCount)

	loader := frames.NewLoader(frames.Default(dir))
	fetch := func(ctx context.Context, i int) (player.Frame, error) {
		return loader.Load(ctx, i)
	}
	s := player.NewImageSurface(w, h)
	pl, err := player.New(s, fetch, opts)
	if err != nil {
		return err
	}
	defer pl.Dispose()

	done := spin("Preloading... ")
	<-pl.Start()
	index := pl.SetProgress(c.Float64("progress"))
	<-pl.Cache().Load(index)
	done()

	if !pl.Paint(index) {
		return fmt.Errorf("no frame near %d could be loaded from %s", index, dir)
	}
	if painted := pl.Painted(); painted != index {
		log.Warnf("frame %d failed to load, painted frame %d instead", index, painted)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := png.Encode(f, s.Image()); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Infof("frame %d written to %s", pl.Painted(), out)
	return nil
}

func extract(c *cli.Context) error {
	input := c.Args().Get(0)
	if input == "" {
		return fmt.Errorf("Video filename is required")
	}
	dir := getDir(c.Args().Get(1))
	e := video.New(dir)
	e.FPS = c.Float64("fps")
	e.Width = c.Int("width")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	done := spin("Extracting... ")
	n, err := e.Extract(ctx, input)
	done()
	if err != nil {
		return err
	}
	log.Infof("%d frames in %s", n, dir)
	return nil
}

func renameFrames(c *cli.Context) error {
	r := rename.New(getDir(c.Args().Get(0)))
	r.Prefix = c.String("prefix")
	r.Start = c.Int("start")
	r.Pad = c.Int("pad")
	r.Ext = c.String("ext")
	r.KeepExt = c.Bool("keep-ext")
	r.DryRun = c.Bool("dry-run")

	plan, err := r.Run()
	if err != nil {
		return err
	}
	if r.DryRun && len(plan) > 0 {
		fmt.Print(plan.String())
		first, last := plan.Range()
		log.Infof("dry run: %d files would be renamed, %s to %s", len(plan), first, last)
	}
	return nil
}

func convertFrames(c *cli.Context) error {
	enc, err := convert.NewEncoder(c.String("encoder"))
	if err != nil {
		return err
	}
	conv := convert.New(getDir(c.Args().Get(0)))
	conv.Encoder = enc
	conv.Quality = c.Int("quality")
	conv.Workers = c.Int("workers")
	conv.OnStart = func(found int) {
		p.ProgressReset(found, "Converting... ")
	}
	conv.OnFile = func(job.JobConvRes) {
		p.Add(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := conv.Run(ctx)
	p.Finish()
	if err != nil {
		return err
	}
	if report.Found == 0 {
		return nil
	}
	log.Info(report.String())
	if report.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", report.Failed, report.Found)
	}
	return nil
}

// spin animates a spinner until the returned func is called.
func spin(desc string) func() {
	p.ProgressSpinner(desc)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(time.Millisecond * 300)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.Add(1) // spin
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
		p.Finish()
	}
}

// getDir returns the folder argument, falling back to the environment and
// then to the default frames folder.
func getDir(arg string) string {
	if arg != "" {
		return arg
	}
	if d := os.Getenv(cfg.EnvFramesDir); d != "" {
		return d
	}
	return cfg.PathFramesDir
}

// parseSize parses WxH.
func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid size %q, want WxH: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q, want positive width and height", s)
	}
	return w, h, nil
}

// checkFrames warns when the folder does not hold the expected sequence.
// Missing frames are not fatal, the player paints their neighbours.
func checkFrames(dir string, count int) {
	t := frames.Default(dir)
	names, err := frames.Scan(dir, t.Match)
	if err != nil {
		log.Warnf("cannot read frames: %v", err)
		return
	}
	if len(names) != count {
		log.Warnf("expected %d frames in %s, found %d", count, dir, len(names))
	}
}

func main() {
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
