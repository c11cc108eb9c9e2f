package stake

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"solbot/solclient"
	"solbot/util"
)

const (
	// Groups longer than this are reported by total only
	MaxItemized = 50

	NoDataMessage = "No stake data available."
)

// Amounts below this many SOL are dropped when dust filtering is enabled
var DustThreshold = decimal.New(1, -2)

type Group struct {
	Amounts []decimal.Decimal
	Total   decimal.Decimal
}

func (g Group) Empty() bool {
	return len(g.Amounts) == 0
}

// Delta is the stake moving in and out of the vote account this epoch
type Delta struct {
	Activating   Group
	Deactivating Group
}

// Net is activating minus deactivating stake
func (d Delta) Net() decimal.Decimal {
	return d.Activating.Total.Sub(d.Deactivating.Total)
}

// IsActivating reports stake delegated this epoch or later that has no
// deactivation scheduled
func IsActivating(a solclient.StakeAccount, epoch uint64) bool {
	return a.ActivationEpoch >= epoch && a.DeactivationEpoch == util.NotDeactivating
}

// IsDeactivating reports stake activated in an earlier epoch that
// deactivates in this one
func IsDeactivating(a solclient.StakeAccount, epoch uint64) bool {
	return a.ActivationEpoch < epoch && a.DeactivationEpoch == epoch
}

// Classify partitions accounts into activating and deactivating groups. An
// account lands in at most one group; accounts matching neither rule are
// ignored.
func Classify(accounts []solclient.StakeAccount, epoch uint64, filterDust bool) Delta {

	var activating, deactivating []decimal.Decimal

	for _, a := range accounts {

		amount := util.LamportsToDecimal(a.StakeLamports)
		if filterDust && amount.LessThan(DustThreshold) {
			continue
		}

		switch {
		case IsActivating(a, epoch):
			activating = append(activating, amount)
		case IsDeactivating(a, epoch):
			deactivating = append(deactivating, amount)
		}
	}

	return Delta{
		Activating:   newGroup(activating),
		Deactivating: newGroup(deactivating),
	}
}

func newGroup(amounts []decimal.Decimal) Group {

	sort.SliceStable(amounts, func(i, j int) bool {
		return amounts[i].GreaterThan(amounts[j])
	})

	return Group{
		Amounts: amounts,
		Total:   decimal.Sum(decimal.Zero, amounts...),
	}
}

// Report renders the delta as a chat message
func (d Delta) Report() string {

	if d.Activating.Empty() && d.Deactivating.Empty() {
		return NoDataMessage
	}

	var b strings.Builder

	writeGroup(&b, "Activating", d.Activating)
	writeGroup(&b, "Deactivating", d.Deactivating)

	b.WriteString("Net Changes: " + FormatSigned(d.Net()) + " SOL")

	return b.String()
}

func writeGroup(b *strings.Builder, label string, g Group) {

	if g.Empty() {
		return
	}

	if len(g.Amounts) <= MaxItemized {
		b.WriteString(label + ":")
		for _, a := range g.Amounts {
			b.WriteString("\n- " + a.StringFixed(2) + " SOL")
		}
	}

	b.WriteString("\nTotal " + label + ": " + g.Total.StringFixed(2) + " SOL\n\n")
}

// FormatSigned renders d with two decimals and an explicit plus sign when
// positive
func FormatSigned(d decimal.Decimal) string {
	s := d.StringFixed(2)
	if d.Round(2).IsPositive() {
		return "+" + s
	}
	return s
}
