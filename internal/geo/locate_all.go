package geo

import (
	"context"

	"github.com/woozymasta/georoute/internal/trace"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LocateAll resolves every hop and returns the successful lookups in hop
// order. Failed lookups are logged and dropped without retry.
// With concurrency above one the lookups run in parallel; the result order
// is the same as for a sequential run.
func LocateAll(ctx context.Context, locator Locator, hops []trace.Hop, concurrency int) []Record {
	results := make([]*Record, len(hops))

	if concurrency <= 1 {
		for i, hop := range hops {
			if ctx.Err() != nil {
				break
			}
			results[i] = locateOne(ctx, locator, hop)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		for i, hop := range hops {
			i, hop := i, hop
			g.Go(func() error {
				results[i] = locateOne(gctx, locator, hop)
				return nil
			})
		}

		// workers never return errors
		_ = g.Wait()
	}

	records := make([]Record, 0, len(hops))
	for _, rec := range results {
		if rec != nil {
			records = append(records, *rec)
		}
	}

	log.Debug().
		Int("hops", len(hops)).
		Int("located", len(records)).
		Int("concurrency", concurrency).
		Msg("Geolocation finished")

	return records
}

func locateOne(ctx context.Context, locator Locator, hop trace.Hop) *Record {
	rec, err := locator.Locate(ctx, hop.IP)
	if err != nil {
		log.Warn().
			Err(err).
			Int("step", hop.Step).
			Str("ip", hop.IP).
			Msg("Error geolocating IP")
		return nil
	}

	log.Debug().
		Int("step", hop.Step).
		Str("ip", hop.IP).
		Float64("lat", rec.Lat).
		Float64("lon", rec.Lon).
		Str("city", rec.City).
		Msg("IP located")

	return rec
}
