package gateway

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dharmasatrya/jetset/internal/models"
)

// Route holds the first lookup match for each end of a trip.
type Route struct {
	Origin      models.Location
	Destination models.Location
}

// ResolveRoute looks up origin and destination concurrently and keeps the
// first match for each. When both fail the origin's error is returned.
func (g *Gateway) ResolveRoute(ctx context.Context, origin, destination string) (Route, error) {
	type lookupResult struct {
		isOrigin bool
		location models.Location
		err      error
	}

	resultCh := make(chan lookupResult, 2)
	var wg sync.WaitGroup

	for _, end := range []struct {
		name     string
		isOrigin bool
	}{{origin, true}, {destination, false}} {
		wg.Add(1)
		go func(name string, isOrigin bool) {
			defer wg.Done()

			locations, err := g.LookupLocation(ctx, name)
			if err != nil {
				resultCh <- lookupResult{isOrigin: isOrigin, err: err}
				return
			}
			resultCh <- lookupResult{isOrigin: isOrigin, location: locations[0]}
		}(end.name, end.isOrigin)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var route Route
	var originErr, destErr error
	for r := range resultCh {
		switch {
		case r.isOrigin && r.err != nil:
			originErr = r.err
		case r.isOrigin:
			route.Origin = r.location
		case r.err != nil:
			destErr = r.err
		default:
			route.Destination = r.location
		}
	}

	if originErr != nil {
		return Route{}, originErr
	}
	if destErr != nil {
		return Route{}, destErr
	}

	g.logger.Debug("route resolved",
		slog.String("origin", route.Origin.ID),
		slog.String("destination", route.Destination.ID),
	)
	return route, nil
}
