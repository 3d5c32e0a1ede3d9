// Package pipeline chains probing, parsing, locating and mapping.
package pipeline

import (
	"context"
	"errors"

	"github.com/woozymasta/georoute/internal/geo"
	"github.com/woozymasta/georoute/internal/mapper"
	"github.com/woozymasta/georoute/internal/probe"
	"github.com/woozymasta/georoute/internal/trace"

	"github.com/rs/zerolog/log"
)

// Stage names the step at which a run stopped.
type Stage string

// Stages reported in Result.StoppedAt.
const (
	StageProbe  Stage = "probe"
	StageParse  Stage = "parse"
	StageLocate Stage = "locate"
	StageDone   Stage = "done"
)

// Pipeline holds the collaborators and output settings of one run.
type Pipeline struct {
	Runner  probe.Runner
	Locator geo.Locator

	Output        string
	GeoJSON       string
	GeoJSONFormat string
	Map           mapper.Options
	Concurrency   int
}

// Result describes what a run produced.
type Result struct {
	StoppedAt Stage
	IPs       []string
	Records   []geo.Record
	MapPath   string
}

// Run traces destination and writes the map. Probe, parse and locate
// failures and cancellation end the run early with a nil error and
// StoppedAt set; only output failures are returned as errors.
func (p *Pipeline) Run(ctx context.Context, destination string) (*Result, error) {
	res := &Result{StoppedAt: StageProbe}

	raw, err := p.Runner.Run(ctx, destination)
	if err != nil || raw == "" {
		log.Error().Err(err).Str("destination", destination).Msg("Failed to perform traceroute")
		return res, nil
	}

	res.StoppedAt = StageParse
	res.IPs = trace.ExtractIPs(raw)
	log.Info().Strs("ips", res.IPs).Msg("Extracted IPs")
	if len(res.IPs) == 0 {
		return res, nil
	}

	res.StoppedAt = StageLocate
	res.Records = geo.LocateAll(ctx, p.Locator, trace.Hops(res.IPs), p.Concurrency)
	log.Info().
		Int("located", len(res.Records)).
		Int("total", len(res.IPs)).
		Msg("Geographic data collected")

	if ctx.Err() != nil {
		log.Warn().Err(ctx.Err()).Msg("Run cancelled before mapping")
		return res, nil
	}

	written, err := mapper.Generate(res.Records, p.Output, p.Map)
	if err != nil {
		return res, err
	}
	if !written {
		return res, nil
	}

	res.StoppedAt = StageDone
	res.MapPath = p.Output
	if res.MapPath == "" {
		res.MapPath = mapper.DefaultOutput
	}

	if p.GeoJSON != "" {
		if err := mapper.Export(res.Records, p.GeoJSON, p.GeoJSONFormat); err != nil && !errors.Is(err, mapper.ErrNoData) {
			return res, err
		}
	}

	return res, nil
}
