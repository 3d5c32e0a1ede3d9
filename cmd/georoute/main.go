package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/georoute/internal/config"
	"github.com/woozymasta/georoute/internal/geo"
	"github.com/woozymasta/georoute/internal/logger"
	"github.com/woozymasta/georoute/internal/mapper"
	"github.com/woozymasta/georoute/internal/pipeline"
	"github.com/woozymasta/georoute/internal/probe"
	"github.com/woozymasta/georoute/internal/server"

	"github.com/fatih/color"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile    string        `short:"c" long:"config"         env:"CONFIG_FILE"        description:"Path to configuration file" default:"georoute.yaml"`
	Output        string        `short:"o" long:"output"         env:"OUTPUT"             description:"Map output file" default:"traceroute_map.html"`
	Endpoint      string        `short:"e" long:"endpoint"       env:"GEO_ENDPOINT"       description:"Geolocation URL template, {ip} is replaced by the hop address" default:"https://ipinfo.io/{ip}/geo"`
	Traceroute    string        `long:"traceroute"               env:"TRACEROUTE_BIN"     description:"Traceroute binary" default:"traceroute"`
	GeoJSON       string        `short:"g" long:"geojson"        env:"GEOJSON_OUTPUT"     description:"Also export the path to this file"`
	GeoJSONFormat string        `long:"geojson-format"           env:"GEOJSON_FORMAT"     description:"Path export format" choice:"json" choice:"yaml" default:"json"`
	Serve         string        `short:"s" long:"serve"          env:"SERVE_ADDRESS"      description:"Serve the map on this address after generation (e.g. 127.0.0.1:8080)"`
	Timeout       time.Duration `short:"t" long:"timeout"        env:"TRACEROUTE_TIMEOUT" description:"Traceroute timeout, 0 waits forever" default:"2m"`
	HTTPTimeout   time.Duration `long:"http-timeout"             env:"HTTP_TIMEOUT"       description:"Geolocation request timeout" default:"15s"`
	Concurrency   int           `short:"p" long:"concurrency"    env:"CONCURRENCY"        description:"Parallel geolocation lookups" default:"1"`
	Zoom          int           `short:"z" long:"zoom"           env:"ZOOM"               description:"Initial map zoom" default:"4"`
	NoMinify      bool          `long:"no-minify"                env:"NO_MINIFY"          description:"Write the map without minification"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.LoadOptional(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.ConfigFile).Msg("Failed to load configuration")
	}
	merge(cfg, &opts)

	ctx, stop := notifyContext()
	defer stop()

	destination, err := pipeline.ReadDestination(ctx, os.Stdin, os.Stdout)
	if err != nil {
		if ctx.Err() != nil {
			log.Warn().Msg("Interrupted")
			return
		}
		log.Error().Err(err).Msg("Failed to read destination")
		return
	}

	p := &pipeline.Pipeline{
		Runner:  probe.Traceroute{Binary: cfg.Traceroute, Timeout: *cfg.Timeout},
		Locator: geo.NewIPInfo(cfg.Endpoint, cfg.Token, opts.HTTPTimeout),
		Map: mapper.Options{
			Title:       "Traceroute to " + destination,
			TileURL:     cfg.TileURL,
			Attribution: cfg.Attribution,
			Zoom:        cfg.Zoom,
			Minify:      !opts.NoMinify,
		},
		Output:        opts.Output,
		GeoJSON:       opts.GeoJSON,
		GeoJSONFormat: opts.GeoJSONFormat,
		Concurrency:   opts.Concurrency,
	}

	res, err := p.Run(ctx, destination)
	if err != nil {
		log.Error().Err(err).Msg("Failed to write output")
		return
	}
	if res.StoppedAt != pipeline.StageDone {
		if ctx.Err() != nil {
			log.Warn().Str("stage", string(res.StoppedAt)).Msg("Interrupted, no map generated")
			return
		}
		log.Warn().Str("stage", string(res.StoppedAt)).Msg("No map generated")
		return
	}

	color.New(color.FgGreen, color.Bold).Fprintf(os.Stdout, "Map saved as %s\n", res.MapPath)

	if opts.Serve == "" {
		return
	}

	viewer := server.NewViewer(res.MapPath, opts.GeoJSON)
	if err := viewer.Serve(ctx, opts.Serve); err != nil {
		log.Error().Err(err).Msg("Viewer failed")
	}
}

// notifyContext returns a context cancelled by SIGINT or SIGTERM. After the
// first signal the default handlers are restored, so a second one terminates
// the process even if something still blocks.
func notifyContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()

	return ctx, stop
}

// merge fills configuration values missing from the file with flag values.
func merge(cfg *config.Config, opts *Options) {
	if cfg.Endpoint == "" {
		cfg.Endpoint = opts.Endpoint
	}
	if cfg.Traceroute == "" {
		cfg.Traceroute = opts.Traceroute
	}
	if cfg.Timeout == nil {
		timeout := opts.Timeout
		cfg.Timeout = &timeout
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = opts.Zoom
	}

	cfg.ApplyDefaults()
}
