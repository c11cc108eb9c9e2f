package util

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatDuration renders seconds as "Xd Yh Zm Ws". Units whose value is zero
// are left out entirely, so 90000 becomes "1d 1h" and 0 becomes "".
func FormatDuration(seconds int64) string {

	if seconds <= 0 {
		return ""
	}

	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, strconv.FormatInt(days, 10)+"d")
	}
	if hours > 0 {
		parts = append(parts, strconv.FormatInt(hours, 10)+"h")
	}
	if minutes > 0 {
		parts = append(parts, strconv.FormatInt(minutes, 10)+"m")
	}
	if secs > 0 {
		parts = append(parts, strconv.FormatInt(secs, 10)+"s")
	}

	return strings.Join(parts, " ")
}

// SmallestGreaterThan returns the smallest value strictly greater than x.
// The bool is false when no such value exists.
func SmallestGreaterThan(values []uint64, x uint64) (uint64, bool) {

	var (
		found    bool
		smallest uint64
	)

	for _, v := range values {
		if v <= x {
			continue
		}
		if !found || v < smallest {
			smallest = v
			found = true
		}
	}

	return smallest, found
}

// CountGreaterThan returns how many values are strictly greater than x
func CountGreaterThan(values []uint64, x uint64) int {
	n := 0
	for _, v := range values {
		if v > x {
			n++
		}
	}
	return n
}

func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / LamportsPerSOL
}

func SignedLamportsToSOL(lamports int64) float64 {
	return float64(lamports) / LamportsPerSOL
}

// LamportsToDecimal converts without going through float64, so sums of
// many stake entries stay exact.
func LamportsToDecimal(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -LamportsDecimals)
}

// FormatFloat prints a float the shortest way that round-trips, which is
// how the statistics API values are shown to users.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
