package rewards

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// FetchFunc returns the SOL reward of the block produced at slot
type FetchFunc func(ctx context.Context, slot uint64) (float64, error)

// Resolver fills in pending rewards of elapsed leader slots
type Resolver struct {
	Cache *Cache
	Fetch FetchFunc

	// Maximum in-flight block lookups; zero or less means no limit
	Concurrency int
}

// Resolve looks up every elapsed slot still holding the zero placeholder,
// concurrently. A failed lookup resolves to zero and is not retried within
// this call. Results are written back to the cache and returned in leader
// schedule order.
func (r *Resolver) Resolve(ctx context.Context, epoch, currentSlot uint64) []Record {

	records := r.Cache.Elapsed(currentSlot)

	g, gctx := errgroup.WithContext(ctx)
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}

	pending := 0
	for i := range records {

		if records[i].Rewards != 0 {
			continue
		}
		pending++

		i := i
		g.Go(func() error {
			sol, err := r.Fetch(gctx, records[i].Slot)
			if err != nil {
				log.WithError(err).WithField("Slot", records[i].Slot).Debug("Block reward lookup failed; counting as zero")
				sol = 0
			}
			records[i].Rewards = sol
			return nil
		})
	}

	// goroutines never return an error
	_ = g.Wait()

	log.WithFields(log.Fields{
		"Epoch": epoch, "Elapsed": len(records), "Fetched": pending,
	}).Debug("Resolved leader slot rewards")

	r.Cache.Store(epoch, records)

	return records
}
