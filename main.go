package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/df07/go-rtiow/pkg/core"
	"github.com/df07/go-rtiow/pkg/imageio"
	"github.com/df07/go-rtiow/pkg/publish"
	"github.com/df07/go-rtiow/pkg/renderer"
	"github.com/df07/go-rtiow/pkg/scene"
)

// options holds the parsed command line
type options struct {
	scene      string
	width      int
	height     int
	spp        int
	depth      int
	seed       int64 // negative keeps the scene's seed
	workers    int
	sequential bool
	out        string
	thumbnail  uint
	upload     bool
	list       bool
	help       bool
}

func parseFlags(args []string, output io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("rtiow", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&opts.scene, "scene", "materials", "Built-in scene name, scene file name, or path to a .json scene")
	fs.IntVar(&opts.width, "width", 0, "Image width (0 = scene default)")
	fs.IntVar(&opts.height, "height", 0, "Image height (0 = scene default)")
	fs.IntVar(&opts.spp, "spp", 0, "Samples per pixel (0 = scene default)")
	fs.IntVar(&opts.depth, "depth", 0, "Maximum bounce depth (0 = scene default)")
	fs.Int64Var(&opts.seed, "seed", -1, "Random seed (-1 = scene default)")
	fs.IntVar(&opts.workers, "workers", 0, "Number of render workers (0 = CPU count)")
	fs.BoolVar(&opts.sequential, "sequential", false, "Render on a single goroutine")
	fs.StringVar(&opts.out, "out", "-", "Output path (.ppm, .png, .jpg, .gif, .tif, .bmp) or - for PPM on stdout")
	fs.UintVar(&opts.thumbnail, "thumbnail", 0, "Scale the image down to fit N x N pixels before saving")
	fs.BoolVar(&opts.upload, "upload", false, "Upload the encoded image to S3 (configured via RTIOW_S3_* or .env)")
	fs.BoolVar(&opts.list, "list", false, "List available scenes")
	fs.BoolVar(&opts.help, "help", false, "Show help information")

	err := fs.Parse(args)
	return opts, fs, err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, fs, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	if opts.help {
		fmt.Fprintln(stdout, "Ray Tracing in One Weekend")
		fmt.Fprintln(stdout, "Usage: rtiow [options]")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "Options:")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		fmt.Fprintln(stdout)
		return listScenes(stdout)
	}
	if opts.list {
		return listScenes(stdout)
	}

	logger := renderer.NewWriterLogger(stderr)
	logger.Printf("Starting ray tracer...\n")

	selectedScene, err := createScene(opts.scene)
	if err != nil {
		return err
	}
	if err := applyOverrides(selectedScene, opts); err != nil {
		return err
	}

	cfg := selectedScene.Config
	logger.Printf("Rendering %s at %dx%d, %d spp, depth %d, seed %d\n",
		selectedScene.Name, cfg.Width, cfg.Height, cfg.SamplesPerPixel, cfg.MaxDepth, selectedScene.Seed)

	pixels, stats, err := renderScene(ctx, selectedScene, opts, logger)
	if err != nil {
		return err
	}
	logger.Printf("Render completed in %v (%d workers, %.0f samples/s)\n",
		stats.Elapsed, stats.Workers, stats.SamplesPerSecond())

	data, format, err := encodeOutput(selectedScene.Config, pixels, opts)
	if err != nil {
		return err
	}

	if opts.out == "-" {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else {
		if dir := filepath.Dir(opts.out); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		if err := os.WriteFile(opts.out, data, 0644); err != nil {
			return fmt.Errorf("saving render: %w", err)
		}
		logger.Printf("Render saved as %s\n", opts.out)
	}

	if opts.upload {
		return uploadRender(ctx, selectedScene.Name, format, data, logger)
	}
	return nil
}

// createScene resolves a built-in name, a scene file name, or a .json path
func createScene(name string) (*scene.Scene, error) {
	if name == "" {
		return nil, fmt.Errorf("no scene given")
	}
	return scene.Resolve(name)
}

// applyOverrides replaces scene settings with any positive flag values
func applyOverrides(s *scene.Scene, opts options) error {
	if opts.width > 0 {
		s.Config.Width = opts.width
	}
	if opts.height > 0 {
		s.Config.Height = opts.height
	}
	if opts.spp > 0 {
		s.Config.SamplesPerPixel = opts.spp
	}
	if opts.depth > 0 {
		s.Config.MaxDepth = opts.depth
	}
	if opts.seed >= 0 {
		s.Seed = uint64(opts.seed)
	}
	return s.Validate()
}

func renderScene(ctx context.Context, s *scene.Scene, opts options, logger core.Logger) ([]core.Vec3, renderer.RenderStats, error) {
	if opts.sequential {
		rt, err := renderer.NewRaytracer(s, s.Camera, s.Config)
		if err != nil {
			return nil, renderer.RenderStats{}, err
		}
		pixels, stats := rt.Render(core.NewPixelSampler(s.Seed))
		return pixels, stats, nil
	}
	return renderer.RenderParallel(ctx, s, s.Camera, s.Config, renderer.PixelSamplerFactory(s.Seed), opts.workers, logger)
}

// encodeOutput encodes the render for the output target. Unthumbnailed PPM output
// goes through WritePPM so stdout matches the raw render exactly.
func encodeOutput(cfg renderer.Config, pixels []core.Vec3, opts options) ([]byte, imageio.Format, error) {
	format := imageio.PPM
	if opts.out != "-" {
		var err error
		if format, err = imageio.FormatFromPath(opts.out); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if format == imageio.PPM && opts.thumbnail == 0 {
		if err := imageio.WritePPM(&buf, cfg.Width, cfg.Height, pixels); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), format, nil
	}

	var img image.Image = imageio.ToImage(cfg.Width, cfg.Height, pixels)
	if opts.thumbnail > 0 {
		img = imageio.Thumbnail(img, opts.thumbnail, opts.thumbnail)
	}
	if err := imageio.Encode(&buf, img, format); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), format, nil
}

func uploadRender(ctx context.Context, sceneName string, format imageio.Format, data []byte, logger core.Logger) error {
	cfg, err := publish.ConfigFromEnv()
	if err != nil {
		return err
	}
	uploader, err := publish.NewUploader(cfg, logger)
	if err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s/render_%s%s", sceneName, timestamp, format.Extension())
	_, err = uploader.Upload(ctx, name, format.ContentType(), data)
	return err
}

func listScenes(w io.Writer) error {
	response, err := scene.ListAllScenes()
	if err != nil {
		return err
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			fmt.Fprintf(w, "  %-16s %s\n", info.ID, info.Description)
		}
	}
	return nil
}
