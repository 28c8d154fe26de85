package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine"
	"github.com/Carmen-Shannon/oxy-vr/engine/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/meshio"
	"github.com/Carmen-Shannon/oxy-vr/engine/preview"
	"github.com/Carmen-Shannon/oxy-vr/engine/profiler"
	"github.com/Carmen-Shannon/oxy-vr/engine/projection"
	"github.com/Carmen-Shannon/oxy-vr/engine/surface"
	"github.com/pierrec/lz4/v4"
)

// options are the command line flags. Projection flags override the settings file when set.
type options struct {
	configPath string
	shape      string
	stereoMode string
	slices     int
	stacks     int
	radius     float64
	exportPath string
	preview    bool
	watch      bool
	verbose    bool
}

func main() {
	opts := parseFlags(os.Args[1:])

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	common.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		common.Logger().Error("oxyvr failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) options {
	var opts options
	fs := flag.NewFlagSet("oxyvr", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "oxyvr.toml", "settings file")
	fs.StringVar(&opts.shape, "shape", "", "projection shape (dome, sphere, cylinder, flat, barrel)")
	fs.StringVar(&opts.stereoMode, "stereo", "", "stereo mode (mono, over-under, side-by-side)")
	fs.IntVar(&opts.slices, "slices", 0, "azimuthal tessellation, even and >= 4")
	fs.IntVar(&opts.stacks, "stacks", 0, "polar tessellation, >= 1")
	fs.Float64Var(&opts.radius, "radius", 0, "surface radius")
	fs.StringVar(&opts.exportPath, "export", "", "write the generated surface to this file")
	fs.BoolVar(&opts.preview, "preview", false, "generate every registered shape and print a summary")
	fs.BoolVar(&opts.watch, "watch", false, "keep running and apply settings file changes")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")
	_ = fs.Parse(args)
	return opts
}

func run(ctx context.Context, opts options, out io.Writer) error {
	settings, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		return err
	}
	overrideSettings(&settings, opts)

	registry := projection.NewDefaultRegistry()
	params, err := resolveParameters(registry, settings)
	if err != nil {
		return err
	}

	eng, err := engine.NewEngine(registry,
		engine.WithProfiler(profiler.NewProfiler(profiler.WithUpdateInterval(settings.Render.Interval(5*time.Second)))),
		engine.WithSurfaceOptions(surface.WithParameters(params)),
		engine.WithRigOptions(settings.Render.RigOptions()...),
	)
	if err != nil {
		return err
	}

	frame := eng.Tick(0)
	report(out, frame.Snapshot)

	if opts.preview {
		if err := printPreview(ctx, out, registry, settings, params); err != nil {
			return err
		}
	}

	if path := exportPath(opts, settings, frame.Snapshot); path != "" {
		var encodeOptions []meshio.EncodeOption
		if settings.Render.Compress {
			encodeOptions = append(encodeOptions, meshio.WithCompression(lz4.Fast))
		}
		if err := meshio.SaveFile(path, frame.Snapshot, encodeOptions...); err != nil {
			return err
		}
	}

	if !opts.watch {
		return nil
	}
	return watch(ctx, eng, opts.configPath, out)
}

func overrideSettings(s *config.Settings, opts options) {
	if opts.shape != "" {
		s.Projection.Shape = opts.shape
	}
	if opts.stereoMode != "" {
		s.Projection.StereoMode = opts.stereoMode
	}
	if opts.slices > 0 {
		s.Projection.Slices = opts.slices
	}
	if opts.stacks > 0 {
		s.Projection.Stacks = opts.stacks
	}
	if opts.radius > 0 {
		s.Projection.Radius = float32(opts.radius)
	}
}

// resolveParameters converts the settings and falls back to the first registered
// variant when the configured shape is unknown.
func resolveParameters(registry projection.Registry, s config.Settings) (projection.Parameters, error) {
	params, err := s.Projection.Parameters()
	if err != nil {
		return projection.Parameters{}, err
	}
	if _, err := registry.Lookup(params.Shape); errors.Is(err, projection.ErrUnknownShape) {
		first, ferr := registry.First()
		if ferr != nil {
			return projection.Parameters{}, ferr
		}
		common.Logger().Warn("unknown shape, using first registered variant", "shape", params.Shape, "fallback", first.Kind())
		params.Shape = first.Kind()
	}
	return params, nil
}

func exportPath(opts options, s config.Settings, snap *surface.Snapshot) string {
	if opts.exportPath != "" {
		return opts.exportPath
	}
	if s.Render.CacheDir == "" {
		return ""
	}
	p := snap.Parameters
	name := fmt.Sprintf("%s-%dx%d-%s.psf", snap.Shape, p.Slices, p.Stacks, p.StereoMode)
	return filepath.Join(s.Render.CacheDir, name)
}

func report(out io.Writer, snap *surface.Snapshot) {
	p := snap.Parameters
	fmt.Fprintf(out, "shape %s  stereo %s  %dx%d  radius %g\n", snap.Shape, p.StereoMode, p.Slices, p.Stacks, p.Radius)
	fmt.Fprintf(out, "vertices %d  triangles %d  generated in %s\n", len(snap.Mesh.Positions), snap.Mesh.TriangleCount(), snap.Elapsed)
	fmt.Fprintf(out, "camera left %v  right %v\n", snap.Offsets.Left, snap.Offsets.Right)
}

func printPreview(ctx context.Context, out io.Writer, registry projection.Registry, s config.Settings, params projection.Parameters) error {
	var previewOptions []preview.PreviewerOption
	if s.Render.PreviewWorkers > 0 {
		previewOptions = append(previewOptions, preview.WithWorkers(s.Render.PreviewWorkers))
	}
	pv := preview.NewPreviewer(registry, previewOptions...)
	defer pv.Close()

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SHAPE\tVERTICES\tTRIANGLES\tELAPSED")
	for _, r := range pv.GenerateAll(ctx, params) {
		if r.Err != nil {
			fmt.Fprintf(tw, "%s\terror: %v\t\t\n", r.Shape, r.Err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", r.Shape, len(r.Snapshot.Mesh.Positions), r.Snapshot.Mesh.TriangleCount(), r.Snapshot.Elapsed)
	}
	return tw.Flush()
}

func watch(ctx context.Context, eng engine.Engine, configPath string, out io.Writer) error {
	w, err := config.NewWatcher(configPath, func(s config.Settings) {
		if err := eng.ApplySettings(s); err != nil {
			common.Logger().Warn("settings not applied", "error", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	eng.SetFrameCallback(func(f engine.Frame) {
		if f.Staged != nil {
			report(out, f.Snapshot)
		}
	})
	eng.EnableProfiler()

	common.Logger().Info("watching settings", "path", w.Path())
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
