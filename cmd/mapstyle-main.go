package main

import (
	"fmt"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	tracing "github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/goutil/gofs"
	"github.com/jamesrr39/goutil/httpextra"
	"github.com/jamesrr39/goutil/logpkg"
	"github.com/jamesrr39/mapstyle/geodata"
	"github.com/jamesrr39/mapstyle/legend"
	"github.com/jamesrr39/mapstyle/mapcss"
	"github.com/jamesrr39/mapstyle/styling"
	"github.com/jamesrr39/mapstyle/webservices"
	"github.com/pkg/profile"
	"gopkg.in/alecthomas/kingpin.v2"
)

const (
	defaultAddr        = "localhost:9001"
	defaultLegendWidth = 420
)

var logger *logpkg.Logger

func main() {
	verbose := kingpin.Flag("v", "verbose logging").Bool()

	logLevel := logpkg.LogLevelInfo
	if *verbose {
		logLevel = logpkg.LogLevelDebug
	}
	logger = logpkg.NewLogger(os.Stderr, logLevel)

	setupStyle()
	setupServe()
	setupLegend()

	kingpin.Parse()
}

func loadStyler(fs gofs.Fs, stylesheetPath string, diagnostics styling.DiagnosticSink) (*styling.Styler, errorsx.Error) {
	file, err := fs.Open(stylesheetPath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	defer file.Close()

	rules, errx := mapcss.Parse(file)
	if errx != nil {
		return nil, errx
	}

	return styling.NewStyler(rules, nil, diagnostics), nil
}

func loadAreas(fs gofs.Fs, pbfFilePath string) ([]geodata.Area, errorsx.Error) {
	file, err := fs.Open(pbfFilePath)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}
	defer file.Close()

	ways, errx := geodata.LoadWaysFromPBF(file)
	if errx != nil {
		return nil, errx
	}

	areas := make([]geodata.Area, 0, len(ways))
	for _, way := range ways {
		areas = append(areas, way)
	}

	return areas, nil
}

func setupStyle() {
	cmd := kingpin.Command("style", "style the ways of a PBF extract and print the result")
	stylesheetPath := cmd.Arg("stylesheet", "MapCSS stylesheet file").Required().String()
	pbfFilePath := cmd.Arg("pbf-file", "PBF extract to read ways from").Required().String()
	zoom := cmd.Flag("zoom", "zoom level to style at").Default("14").Float64()
	shouldProfile := cmd.Flag("profile", "profile the styling performance").Bool()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			fs := gofs.NewOsFs()

			if *shouldProfile {
				defer profile.Start(profile.CPUProfile).Stop()
			}

			styler, err := loadStyler(fs, *stylesheetPath, styling.NewLoggerSink(logger))
			if err != nil {
				return err
			}

			areas, err := loadAreas(fs, *pbfFilePath)
			if err != nil {
				return err
			}

			styledAreas := styler.StyleAreas(areas, geodata.ZoomLevel(*zoom))

			if styler.CanvasFillColor != nil {
				fmt.Printf("canvas fill-color: %s\n", styler.CanvasFillColor)
			}
			for _, styledArea := range styledAreas {
				fmt.Printf("way %d::%s z-index=%s %s\n",
					styledArea.Area.GlobalID(),
					styledArea.Layer,
					strconv.FormatFloat(styledArea.Style.ZIndex, 'f', -1, 64),
					styledArea.Style,
				)
			}

			return nil
		}

		err := run()
		if err != nil {
			log.Fatalf("%s\n%s\n", err.Error(), err.Stack())
		}

		return nil
	})
}

func setupServe() {
	cmd := kingpin.Command("serve", "serve the styling API over HTTP")
	stylesheetPath := cmd.Arg("stylesheet", "MapCSS stylesheet file").Required().String()
	addr := cmd.Flag("addr", fmt.Sprintf("address to serve on. Ex: %q", defaultAddr)).Default(defaultAddr).String()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			fs := gofs.NewOsFs()

			styler, err := loadStyler(fs, *stylesheetPath, styling.NewLoggerSink(logger))
			if err != nil {
				return err
			}

			traceFilePath := filepath.Join(os.TempDir(), fmt.Sprintf("mapstyle_trace_%s.pbf", time.Now().Format("2006-01-02__03_04_05")))
			traceFile, createErr := os.Create(traceFilePath)
			if createErr != nil {
				return errorsx.Wrap(createErr)
			}
			logger.Info("tracing at %q", traceFilePath)

			tracer := tracing.NewTracer(traceFile)

			server := httpextra.NewServerWithTimeouts()
			server.Addr = *addr
			server.Handler = webservices.NewRouter(logger, styler, tracer)

			logger.Info("about to start serving on %q", *addr)

			serveErr := server.ListenAndServe()
			if serveErr != nil {
				return errorsx.Wrap(serveErr)
			}

			return nil
		}

		err := run()
		if err != nil {
			log.Fatalf("%s\n%s\n", err.Error(), err.Stack())
		}

		return nil
	})
}

func setupLegend() {
	cmd := kingpin.Command("legend", "render a PNG legend of the distinct styles a PBF extract produces")
	stylesheetPath := cmd.Arg("stylesheet", "MapCSS stylesheet file").Required().String()
	pbfFilePath := cmd.Arg("pbf-file", "PBF extract to read ways from").Required().String()
	zoom := cmd.Flag("zoom", "zoom level to style at").Default("14").Float64()
	outFilePath := cmd.Flag("out", "file to write the legend to").Short('o').Default("legend.png").String()
	imageWidth := cmd.Flag("width", "legend image width in pixels").Default(fmt.Sprintf("%d", defaultLegendWidth)).Int()
	cmd.Action(func(ctx *kingpin.ParseContext) error {
		run := func() errorsx.Error {
			fs := gofs.NewOsFs()

			styler, err := loadStyler(fs, *stylesheetPath, styling.NewLoggerSink(logger))
			if err != nil {
				return err
			}

			areas, err := loadAreas(fs, *pbfFilePath)
			if err != nil {
				return err
			}

			styledAreas := styler.StyleAreas(areas, geodata.ZoomLevel(*zoom))

			// one legend row per distinct style, keeping the first
			// occurrence so rows stay in draw order
			seen := make(map[styling.StyleHashKey]bool)
			var distinct []*styling.StyledArea
			for _, styledArea := range styledAreas {
				key := styledArea.Style.ToHashKey()
				if seen[key] {
					continue
				}
				seen[key] = true
				distinct = append(distinct, styledArea)
			}

			image, err := legend.RenderLegend(distinct, styler.CanvasFillColor, *imageWidth)
			if err != nil {
				return err
			}

			outFile, createErr := fs.Create(*outFilePath)
			if createErr != nil {
				return errorsx.Wrap(createErr)
			}
			defer outFile.Close()

			encodeErr := png.Encode(outFile, image)
			if encodeErr != nil {
				return errorsx.Wrap(encodeErr)
			}

			logger.Info("wrote legend with %d entries to %q", len(distinct), *outFilePath)

			return nil
		}

		err := run()
		if err != nil {
			log.Fatalf("%s\n%s\n", err.Error(), err.Stack())
		}

		return nil
	})
}
