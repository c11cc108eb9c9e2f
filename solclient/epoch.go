package solclient

import (
	"context"
)

// EpochInfo is the subset of getEpochInfo the bot uses
type EpochInfo struct {
	Epoch        uint64 `json:"epoch"`
	AbsoluteSlot uint64 `json:"absoluteSlot"`
	SlotIndex    uint64 `json:"slotIndex"`
	SlotsInEpoch uint64 `json:"slotsInEpoch"`
}

// BaseSlot is the absolute slot at which the epoch started
func (e *EpochInfo) BaseSlot() uint64 {
	return e.AbsoluteSlot - e.SlotIndex
}

// LeaderSchedule maps a validator identity to its slot offsets within the epoch
type LeaderSchedule map[string][]uint64

// SlotsFor returns the identity's offsets, or an empty slice when it has none
func (s LeaderSchedule) SlotsFor(identity string) []uint64 {
	if slots, ok := s[identity]; ok {
		return slots
	}
	return []uint64{}
}

func (c *Client) GetEpochInfo(ctx context.Context) (*EpochInfo, error) {

	var info *EpochInfo
	if err := c.call(ctx, "getEpochInfo", nil, &info); err != nil {
		return nil, err
	}

	if info == nil {
		return nil, errNullResult("getEpochInfo")
	}

	return info, nil
}

// GetLeaderSchedule fetches the current epoch's schedule. When identity is set
// the node only returns that validator's entry.
func (c *Client) GetLeaderSchedule(ctx context.Context, identity string) (LeaderSchedule, error) {

	var params []interface{}
	if identity != "" {
		params = []interface{}{nil, map[string]string{"identity": identity}}
	}

	var schedule LeaderSchedule
	if err := c.call(ctx, "getLeaderSchedule", params, &schedule); err != nil {
		return nil, err
	}

	if schedule == nil {
		schedule = LeaderSchedule{}
	}

	return schedule, nil
}
