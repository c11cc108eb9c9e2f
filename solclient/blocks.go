package solclient

import (
	"context"
)

// Reward is a single entry of a block's rewards list
type Reward struct {
	Pubkey      string `json:"pubkey"`
	Lamports    int64  `json:"lamports"`
	PostBalance uint64 `json:"postBalance"`
	RewardType  string `json:"rewardType"`
}

type Block struct {
	Rewards []Reward `json:"rewards"`
}

// LeaderLamports returns the lamports of the first reward entry, which for
// a produced block is the leader's fee reward. Zero when absent.
func (b *Block) LeaderLamports() int64 {
	if b == nil || len(b.Rewards) == 0 {
		return 0
	}
	return b.Rewards[0].Lamports
}

// GetBlockRewards fetches a block with rewards only, no transaction detail.
// A nil block means the node returned no block for the slot.
func (c *Client) GetBlockRewards(ctx context.Context, slot uint64) (*Block, error) {

	params := []interface{}{
		slot,
		map[string]interface{}{
			"encoding":                       "json",
			"transactionDetails":             "none",
			"rewards":                        true,
			"maxSupportedTransactionVersion": 0,
		},
	}

	var block *Block
	if err := c.call(ctx, "getBlock", params, &block); err != nil {
		return nil, err
	}

	return block, nil
}
