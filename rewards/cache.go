package rewards

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var (
	cachedSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solbot_reward_cache_slots",
		Help: "Leader slots held by the reward cache for the current epoch",
	})
	resolvedSlots = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "solbot_reward_cache_resolved_slots",
		Help: "Cached leader slots with a non-zero reward",
	})
)

// Record is the reward of one leader slot, in SOL. Zero means the slot is
// still pending, its block could not be fetched, or it earned nothing.
type Record struct {
	Slot    uint64  `json:"slot"`
	Rewards float64 `json:"rewards"`
}

// Cache holds one epoch's leader slot rewards. Individual operations are
// atomic; a read/resolve/store sequence is not, so Store refuses results
// computed for an epoch the cache no longer holds.
type Cache struct {
	mu     sync.Mutex
	epoch  uint64
	seeded bool
	slots  []uint64
	values map[uint64]float64
}

type Snapshot struct {
	Epoch    uint64 `json:"epoch"`
	Seeded   bool   `json:"seeded"`
	Slots    int    `json:"slots"`
	Resolved int    `json:"resolved"`
}

func NewCache() *Cache {
	return &Cache{
		values: make(map[uint64]float64),
	}
}

// AbsoluteSlots converts within-epoch offsets to absolute slot numbers
func AbsoluteSlots(offsets []uint64, baseSlot uint64) []uint64 {
	slots := make([]uint64, len(offsets))
	for i, o := range offsets {
		slots[i] = o + baseSlot
	}
	return slots
}

// Observe resets the cache to the given epoch's slots, each with a zero
// placeholder, when epoch differs from the one held. Returns true on reset.
func (c *Cache) Observe(epoch uint64, slots []uint64) bool {

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.seeded && c.epoch == epoch {
		return false
	}

	log.WithFields(log.Fields{
		"Previous": c.epoch, "Epoch": epoch, "LeaderSlots": len(slots),
	}).Info("Reward cache reset for new epoch")

	c.epoch = epoch
	c.seeded = true
	c.slots = make([]uint64, 0, len(slots))
	c.values = make(map[uint64]float64, len(slots))

	for _, s := range slots {
		if _, dup := c.values[s]; dup {
			continue
		}
		c.slots = append(c.slots, s)
		c.values[s] = 0
	}

	c.updateGauges()

	return true
}

// Elapsed returns the cached records for slots strictly before current, in
// leader schedule order.
func (c *Cache) Elapsed(current uint64) []Record {

	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]Record, 0, len(c.slots))
	for _, s := range c.slots {
		if s >= current {
			continue
		}
		records = append(records, Record{Slot: s, Rewards: c.values[s]})
	}

	return records
}

// Store writes resolved rewards back. Records for slots outside the held
// epoch, or for a superseded epoch, are dropped; returns false in that case.
func (c *Cache) Store(epoch uint64, records []Record) bool {

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.seeded || c.epoch != epoch {
		log.WithFields(log.Fields{
			"Held": c.epoch, "Epoch": epoch,
		}).Warn("Dropping reward results for superseded epoch")
		return false
	}

	for _, r := range records {
		if _, ok := c.values[r.Slot]; !ok {
			continue
		}
		c.values[r.Slot] = r.Rewards
	}

	c.updateGauges()

	return true
}

func (c *Cache) Snapshot() Snapshot {

	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Epoch:    c.epoch,
		Seeded:   c.seeded,
		Slots:    len(c.slots),
		Resolved: c.resolvedLocked(),
	}
}

func (c *Cache) resolvedLocked() int {
	n := 0
	for _, v := range c.values {
		if v != 0 {
			n++
		}
	}
	return n
}

// caller holds mu
func (c *Cache) updateGauges() {
	cachedSlots.Set(float64(len(c.slots)))
	resolvedSlots.Set(float64(c.resolvedLocked()))
}
