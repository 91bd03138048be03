package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	shapetracer "github.com/menta2k/shape-tracer"
	"github.com/menta2k/shape-tracer/internal/config"
	"github.com/menta2k/shape-tracer/internal/utils"
	"github.com/menta2k/shape-tracer/pkg/shape"
)

func main() {
	var in, outDir, configPath, saveConfig, name string
	var tolerance, blur, rotate float64
	var points, threshold, smooth, steps, maxSize, workers int
	var method, dbgext string
	var dbgquality int
	var light, debug, dbglossless bool
	var noSVG, noJSON, noSnippet bool

	cfg := config.Default()

	flag.StringVar(&in, "in", "", "input image, directory, or comma separated list (png/jpg/webp/...)")
	flag.StringVar(&outDir, "out", "", "output directory (default: next to each input)")
	flag.StringVar(&configPath, "config", "", "JSON config file (default: "+config.GetConfigPath()+" if present)")
	flag.StringVar(&saveConfig, "save-config", "", "write the effective config to this path and exit")

	flag.Float64Var(&tolerance, "tolerance", cfg.Shape.ToleranceFactor, "simplification tolerance as a fraction of the perimeter (lower keeps more points)")
	flag.IntVar(&points, "points", cfg.Shape.TargetPointCount, "number of evenly spaced output points")
	flag.Float64Var(&rotate, "rotate", cfg.Shape.RotationDegrees, "rotate the normalized outline by this many degrees")
	flag.IntVar(&smooth, "smooth", cfg.Shape.SmoothingPasses, "smoothing passes over the resampled outline (0 disables)")

	flag.IntVar(&threshold, "threshold", cfg.Trace.Threshold, "gray level separating shape from background (0-255)")
	flag.Float64Var(&blur, "blur", cfg.Trace.SmoothingRadius, "Gaussian blur sigma before thresholding (0 disables)")
	flag.BoolVar(&light, "light", cfg.Trace.LightForeground, "shape is lighter than the background")
	flag.StringVar(&method, "method", cfg.Trace.Method, "contour method: moore|radial")
	flag.IntVar(&steps, "steps", cfg.Trace.AngularSteps, "angular sectors for the radial method")
	flag.IntVar(&maxSize, "maxsize", cfg.Trace.MaxSize, "downscale inputs whose longer side exceeds this (0 disables)")

	flag.BoolVar(&noSVG, "nosvg", false, "skip the SVG preview")
	flag.BoolVar(&noJSON, "nojson", false, "skip the JSON document")
	flag.BoolVar(&noSnippet, "nosnippet", false, "skip the JavaScript snippet")
	flag.StringVar(&name, "name", "", "generator function name for the snippet (default: input base name)")

	flag.BoolVar(&debug, "debug", cfg.Output.Debug, "create debug overlay images")
	flag.StringVar(&dbgext, "dbgext", cfg.Output.DebugFormat, "debug overlay format: png|jpg|webp")
	flag.IntVar(&dbgquality, "dbgquality", cfg.Output.DebugQuality, "debug overlay quality (for jpg/webp)")
	flag.BoolVar(&dbglossless, "dbglossless", cfg.Output.DebugLossless, "debug overlay WebP lossless mode")
	flag.IntVar(&workers, "workers", cfg.Output.Workers, "images processed in parallel")

	flag.Parse()

	if configPath == "" && utils.FileExists(config.GetConfigPath()) {
		configPath = config.GetConfigPath()
	}
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
		log.Printf("loaded config %s", configPath)
	}

	// Flags given on the command line override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.OutputDir = outDir
		case "tolerance":
			cfg.Shape.ToleranceFactor = tolerance
		case "points":
			cfg.Shape.TargetPointCount = points
		case "rotate":
			cfg.Shape.RotationDegrees = rotate
		case "smooth":
			cfg.Shape.SmoothingPasses = smooth
		case "threshold":
			cfg.Trace.Threshold = threshold
		case "blur":
			cfg.Trace.SmoothingRadius = blur
		case "light":
			cfg.Trace.LightForeground = light
		case "method":
			cfg.Trace.Method = method
		case "steps":
			cfg.Trace.AngularSteps = steps
		case "maxsize":
			cfg.Trace.MaxSize = maxSize
		case "nosvg":
			cfg.Output.SVG = !noSVG
		case "nojson":
			cfg.Output.JSON = !noJSON
		case "nosnippet":
			cfg.Output.Snippet = !noSnippet
		case "name":
			cfg.Output.GeneratorName = name
		case "debug":
			cfg.Output.Debug = debug
		case "dbgext":
			cfg.Output.DebugFormat = strings.ToLower(dbgext)
		case "dbgquality":
			cfg.Output.DebugQuality = dbgquality
		case "dbglossless":
			cfg.Output.DebugLossless = dbglossless
		case "workers":
			cfg.Output.Workers = workers
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if saveConfig != "" {
		if err := cfg.SaveToFile(saveConfig); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", saveConfig)
		return
	}

	if in == "" {
		log.Fatalf("usage: %s -in image.png|dir [-out outdir] [-points 120] [-tolerance 0.003] [-method moore|radial] [-debug]", filepath.Base(os.Args[0]))
	}

	inputs, err := utils.ExpandInputs(strings.Split(in, ","))
	if err != nil {
		log.Fatal(err)
	}
	if len(inputs) == 0 {
		log.Fatalf("no images found in %s", in)
	}
	if cfg.Output.OutputDir != "" {
		if err := utils.EnsureDir(cfg.Output.OutputDir); err != nil {
			log.Fatal(err)
		}
	}

	log.Printf("tracing %d image(s): tolerance=%g points=%d method=%s threshold=%d",
		len(inputs), cfg.Shape.ToleranceFactor, cfg.Shape.TargetPointCount, cfg.Trace.Method, cfg.Trace.Threshold)

	tracer := shapetracer.NewFromConfig(cfg)
	results := tracer.ProcessBatch(context.Background(), inputs, cfg.Output.OutputDir, cfg.Output.Workers)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Printf("%s: %s", r.Input, describeError(r.Err))
			continue
		}
		report(r)
	}

	log.Printf("done: %d traced, %d failed", len(results)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func report(r shapetracer.BatchResult) {
	c := r.Result.Contour
	s := r.Result.Shape
	log.Printf("%s: image %dx%d, %d region(s), largest area %.0f px², %d contour points",
		r.Input, c.ImageWidth, c.ImageHeight, c.Components, c.Area, len(c.Points))
	b := s.Simplified.Bound()
	log.Printf("%s: simplified to %d points, bounds %.0fx%.0f px, width ratio %.3f, %d output points",
		r.Input, len(s.Simplified), b.Max[0]-b.Min[0], b.Max[1]-b.Min[1], s.Descriptor.WidthRatio, len(s.Descriptor.Points))
	for _, p := range r.Outputs.Paths() {
		size := ""
		if info, err := os.Stat(p); err == nil {
			size = " (" + utils.FormatFileSize(info.Size()) + ")"
		}
		log.Printf("wrote %s%s", p, size)
	}
}

func describeError(err error) string {
	switch {
	case errors.Is(err, shape.ErrEmptyContour):
		return fmt.Sprintf("no contour found (%v)", err)
	case errors.Is(err, shape.ErrDegenerateShape):
		return fmt.Sprintf("degenerate shape (%v)", err)
	case errors.Is(err, shape.ErrInsufficientPoints):
		return fmt.Sprintf("too few points (%v)", err)
	default:
		return err.Error()
	}
}
