// Command markerscan runs the fiducial pipeline against an image file
// from the command line, without opening the Tk window. It doubles as
// a fixture generator for --generate, stamping a synthetic bullseye
// marker to a PNG so the scan path can be exercised without a live
// capture source.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/soocke/fiducial-go/capture"
	"github.com/soocke/fiducial-go/config"
	dcapture "github.com/soocke/fiducial-go/domain/capture"
	"github.com/soocke/fiducial-go/fiducial"
	"github.com/soocke/fiducial-go/internal/markergen"
)

func main() {
	var (
		inputPath    = flag.String("input", "", "image file to scan for markers")
		generatePath = flag.String("generate", "", "write a synthetic bullseye marker fixture to this PNG path instead of scanning")
		order        = flag.Int("order", 4, "rings per side of the center for --generate (must be even)")
		ringWidth    = flag.Int("ring-width", 10, "pixel width of each ring for --generate")
		cfgPath      = flag.String("config", "", "config file to load (defaults to the XDG config path)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *generatePath != "" {
		if err := generateFixture(*generatePath, *order, *ringWidth); err != nil {
			logger.Error("generate fixture", "error", err)
			os.Exit(1)
		}
		return
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: markerscan --input <image> | --generate <image>")
		os.Exit(2)
	}

	cfg := resolveConfig(*cfgPath, logger)

	img, err := capture.LoadImageFile(*inputPath)
	if err != nil {
		logger.Error("load input", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	result, err := dcapture.DetectMarkers(img, cfg)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error("detect markers", "error", err)
		os.Exit(1)
	}

	report(*inputPath, result, elapsed)
}

func resolveConfig(path string, logger *slog.Logger) *config.Config {
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			logger.Warn("resolve default config path", "error", err)
			return config.DefaultConfig()
		}
		path = defaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("load config, using defaults", "path", path, "error", err)
		return config.DefaultConfig()
	}
	return cfg
}

// report prints scan results. When stdout is a real terminal it prints
// a slightly friendlier, humanized summary; piped output stays terse
// and script-friendly for downstream tools.
func report(path string, result fiducial.FrameResult, elapsed time.Duration) {
	pretty := isatty.IsTerminal(os.Stdout.Fd())
	markers := result.Markers.Markers

	if !pretty {
		for _, m := range markers {
			fmt.Printf("%s\t%d\t%d\t%d\n", path, m.Order, m.X, m.Y)
		}
		return
	}

	if len(markers) == 0 {
		fmt.Printf("%s: no markers found (scanned in %s)\n", path, elapsed.Round(time.Microsecond))
		return
	}
	fmt.Printf("%s: found %s marker(s) in %s\n", path, humanize.Comma(int64(len(markers))), elapsed.Round(time.Microsecond))
	for _, m := range markers {
		fmt.Printf("  order %d at (%d, %d)\n", m.Order, m.X, m.Y)
	}
	if result.Posed {
		fmt.Printf("  pose: %+v\n", result.Pose)
	}
}

func generateFixture(path string, order, ringWidth int) error {
	if order%2 != 0 {
		return fmt.Errorf("order must be even, got %d", order)
	}
	if ringWidth <= 0 {
		return fmt.Errorf("ring-width must be positive, got %d", ringWidth)
	}
	pat := markergen.Pattern{Order: order, RingWidth: ringWidth}
	radius := pat.Radius()
	size := radius*2 + 80 // 40px of bright preamble each side, above the default MarkStartPrefixHomoLenMin
	pat.CenterX, pat.CenterY = size/2, size/2

	img := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x-pat.CenterX), float64(y-pat.CenterY)
			r := int(math.Round(math.Hypot(dx, dy)))
			img.SetGray(x, y, color.Gray{Y: pat.MagnitudeAt(r)})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return err
	}
	stat, err := f.Stat()
	if err != nil {
		return nil
	}
	fmt.Printf("wrote %s (%s)\n", path, humanize.Bytes(uint64(stat.Size())))
	return nil
}
