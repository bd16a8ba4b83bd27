package rbl

import (
	"context"
	"sync"
)

// QueryAllZones dispatches one QueryZone per zone concurrently and waits for
// all of them to complete. Results are gathered positionally, so the returned
// slice always matches zone declaration order regardless of which zones
// answered first. A failure in one zone is contained in its ZoneResult and
// never affects the others. Cancelling ctx cancels all in-flight queries.
func (r *Resolver) QueryAllZones(ctx context.Context, reversedKey string, zones []string) []ZoneResult {
	results := make([]ZoneResult, len(zones))

	var wg sync.WaitGroup
	for i, zone := range zones {
		wg.Add(1)
		go func(i int, zone string) {
			defer wg.Done()
			results[i] = r.QueryZone(ctx, reversedKey, zone)
		}(i, zone)
	}
	wg.Wait()

	return results
}
