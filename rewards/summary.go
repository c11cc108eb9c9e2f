package rewards

import (
	"fmt"
	"sort"
	"strings"
)

const BestSlotsLimit = 50

// Summary reduces an epoch's elapsed leader slots to the figures shown in
// the rewards report
type Summary struct {
	Total         float64
	Best          []Record
	Failed        []Record
	Produced      int
	AverageReward float64
	MEV           float64
	AverageMEV    float64
}

// Summarize computes totals and averages. Averages divide by the number of
// slots with a non-zero reward; with none they are NaN or Inf.
func Summarize(records []Record, mev float64) Summary {

	s := Summary{MEV: mev}

	for _, r := range records {
		s.Total += r.Rewards
		if r.Rewards == 0 {
			s.Failed = append(s.Failed, r)
		} else if r.Rewards > 0 {
			s.Produced++
		}
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rewards > sorted[j].Rewards
	})

	if len(sorted) > BestSlotsLimit {
		sorted = sorted[:BestSlotsLimit]
	}
	s.Best = sorted

	produced := float64(s.Produced)
	s.AverageReward = s.Total / produced
	s.AverageMEV = s.MEV / produced

	return s
}

// Report renders the summary as the chat message body
func (s Summary) Report() string {

	var b strings.Builder

	b.WriteString("Best Slots:\n")
	for _, r := range s.Best {
		fmt.Fprintf(&b, "%d: %.4f SOL\n", r.Slot, r.Rewards)
	}

	b.WriteString("\nFailed Slots:")
	for _, r := range s.Failed {
		fmt.Fprintf(&b, "\n%d: %.4f SOL", r.Slot, r.Rewards)
	}

	fmt.Fprintf(&b, "\n\nTotal BR: %.4f SOL", s.Total)
	fmt.Fprintf(&b, "\nAvg Rewards/Slot: %.4f SOL", s.AverageReward)
	fmt.Fprintf(&b, "\n\nTotal MEV: %.4f SOL", s.MEV)
	fmt.Fprintf(&b, "\nAvg MEV/Slot: %.4f SOL", s.AverageMEV)

	return b.String()
}
