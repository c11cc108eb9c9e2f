package util

import (
	"math"
	"time"
)

const (
	LamportsPerSOL   = 1_000_000_000
	LamportsDecimals = 9

	// Mainnet average; slots are targeted at 400ms but drift under load
	DefaultSlotDuration = 400 * time.Millisecond

	StakeProgramID = "Stake11111111111111111111111111111111111111"

	// Byte offset of the delegation voter pubkey inside a stake account
	StakeVoterOffset = 124

	// Sentinel used by the stake program for "not deactivating"
	NotDeactivating = uint64(math.MaxUint64)

	TipDistributionProgramID = "4R3gSG8BpU4t19KYj8CfnbtRpnT8gtk4dvTHxVRwc2r7"
	TipDistributionSeed      = "TIP_DISTRIBUTION_ACCOUNT"
)
